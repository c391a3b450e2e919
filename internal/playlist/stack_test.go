package playlist

import (
	"testing"

	"github.com/famish99/uampd/internal/control"
)

func TestPushWithCurrentSeamlessSplice(t *testing.T) {
	// spec.md §4.4 scenario 2: [A,B,C] current=1 (B) + PushWithCur([X,Y])
	// => new playlist [B,X,Y], current=0, stack depth +1.
	base := FromIDs(ids(10, 11, 12), control.PolicyEnd) // A,B,C
	base.Current = control.SomeInt(1)                   // B

	st := NewStack(base)
	next := FromIDs(ids(20, 21), control.PolicyEnd) // X,Y
	st.PushWithCurrent(next)

	if st.Depth() != 1 {
		t.Fatalf("expected stack depth 1, got %d", st.Depth())
	}
	all := st.Current.Songs.All()
	if len(all) != 3 || all[0] != 11 || all[1] != 20 || all[2] != 21 {
		t.Fatalf("unexpected spliced playlist: %v", all)
	}
	if !st.Current.Current.Valid || st.Current.Current.Value != 0 {
		t.Fatalf("expected current index 0, got %+v", st.Current.Current)
	}
}

func TestPopRestoresSavedPosition(t *testing.T) {
	parent := FromIDs(ids(1, 2, 3), control.PolicyEnd)
	st := NewStack(parent)

	child := FromIDs(ids(4, 5), control.PolicyEnd)
	st.Push(child, control.SomeInt(1))

	pos, ok := st.Pop(0)
	if !ok {
		t.Fatalf("expected pop to succeed")
	}
	if !pos.Valid || pos.Value != 1 {
		t.Fatalf("expected restored position 1, got %+v", pos)
	}
	if st.Current != parent {
		t.Fatalf("expected parent playlist restored as current")
	}
}

func TestPopOnEmptyStackIsNoOp(t *testing.T) {
	st := NewStack(FromIDs(ids(1, 2), control.PolicyEnd))
	_, ok := st.Pop(0)
	if ok {
		t.Fatalf("expected pop on empty stack to report no-op")
	}
}

func TestFlattenMergesPlaylistsAndTracksCurrent(t *testing.T) {
	parent := FromIDs(ids(1, 2), control.PolicyEnd)
	st := NewStack(parent)

	child := FromIDs(ids(3, 4), control.PolicyEnd)
	child.Current = control.SomeInt(1) // song 4, last of current playlist
	st.Push(child, control.NoneInt)

	st.Flatten(0)

	if st.Depth() != 0 {
		t.Fatalf("expected flatten to empty the stack, got depth %d", st.Depth())
	}
	all := st.Current.Songs.All()
	if len(all) != 4 || all[0] != 1 || all[1] != 2 || all[2] != 3 || all[3] != 4 {
		t.Fatalf("unexpected flattened playlist: %v", all)
	}
	if !st.Current.Current.Valid || st.Current.Current.Value != 3 {
		t.Fatalf("expected current to track song 4 at new index 3, got %+v", st.Current.Current)
	}
}

func TestReorderStackSelectsNewCurrent(t *testing.T) {
	a := FromIDs(ids(1), control.PolicyEnd)
	st := NewStack(a)
	b := FromIDs(ids(2), control.PolicyEnd)
	st.Push(b, control.NoneInt)
	c := FromIDs(ids(3), control.PolicyEnd)
	st.Push(c, control.NoneInt)

	// addressed per spec.md §4.4: 0=current(c), 1=stack top(b), 2=bottom(a).
	// order=[1,0,2] => new current is b; new stack top->bottom is c, a.
	if err := st.Reorder([]int{1, 0, 2}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if st.Current != b {
		t.Fatalf("expected current to become b after reorder, got %v", st.Current)
	}
	if len(st.parents) != 2 || st.parents[0] != a || st.parents[1] != c {
		t.Fatalf("unexpected parents after reorder: %v", st.parents)
	}
}

func TestReorderAcceptsPartialOrder(t *testing.T) {
	a := FromIDs(ids(1), control.PolicyEnd)
	st := NewStack(a)
	b := FromIDs(ids(2), control.PolicyEnd)
	st.Push(b, control.NoneInt)
	c := FromIDs(ids(3), control.PolicyEnd)
	st.Push(c, control.NoneInt)

	// order=[1] alone promotes the stack top (b) to current without
	// mentioning a or c; a keeps its relative (bottom) position and the
	// outgoing current (c) lands as the new stack top.
	if err := st.Reorder([]int{1}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if st.Current != b {
		t.Fatalf("expected current to become b after partial reorder, got %v", st.Current)
	}
	if len(st.parents) != 2 || st.parents[0] != a || st.parents[1] != c {
		t.Fatalf("unexpected parents after partial reorder: %v", st.parents)
	}
}

func TestReorderEmptyOrderIsNoOp(t *testing.T) {
	a := FromIDs(ids(1), control.PolicyEnd)
	st := NewStack(a)
	b := FromIDs(ids(2), control.PolicyEnd)
	st.Push(b, control.NoneInt)

	if err := st.Reorder(nil); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if st.Current != b || st.Depth() != 1 {
		t.Fatalf("expected empty order to leave the stack untouched")
	}
}

func TestReorderRejectsTooManyOrOutOfRangeIndices(t *testing.T) {
	st := NewStack(FromIDs(ids(1), control.PolicyEnd))
	if err := st.Reorder([]int{0, 0}); err == nil {
		t.Fatalf("expected error when order is longer than the stack")
	}
	if err := st.Reorder([]int{5}); err == nil {
		t.Fatalf("expected error for an out-of-range index")
	}
}
