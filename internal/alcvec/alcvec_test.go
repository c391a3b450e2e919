package alcvec

import "testing"

func TestSnapshotIsolatedFromLaterMutation(t *testing.T) {
	v := New([]int{1, 2, 3})
	snap := v.Snapshot()

	v.Append(4)
	v.Set(0, 99)

	if got := snap.All(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("snapshot mutated by later writes: %v", got)
	}
	if v.Len() != 4 {
		t.Fatalf("expected live vector to grow to 4, got %d", v.Len())
	}
	first, ok := v.At(0)
	if !ok || first != 99 {
		t.Fatalf("expected live vector index 0 = 99, got %v ok=%v", first, ok)
	}
}

func TestSecondSnapshotAfterMutationIsIndependent(t *testing.T) {
	v := New([]int{1, 2, 3})
	snapA := v.Snapshot()
	v.Append(4)
	snapB := v.Snapshot()
	v.Append(5)

	if snapA.Len() != 3 {
		t.Fatalf("snapA should be frozen at 3 elements, got %d", snapA.Len())
	}
	if snapB.Len() != 4 {
		t.Fatalf("snapB should be frozen at 4 elements, got %d", snapB.Len())
	}
	if v.Len() != 5 {
		t.Fatalf("live vector should have 5 elements, got %d", v.Len())
	}
}

func TestTruncateDropsTrailingElements(t *testing.T) {
	v := New([]int{1, 2, 3, 4, 5})
	v.Snapshot()
	v.Truncate(2)
	if got := v.All(); len(got) != 2 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}
