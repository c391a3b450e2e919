// Package alcvec implements the two-state lazily-cloned vector described
// in spec.md §3 ("AlcVec<T>"): Shared holds an immutable slice that may be
// handed to a background task without copying; the first mutation copies
// on write and transitions to Owned. A later Snapshot forces Owned back to
// Shared so the next mutator copies again instead of disturbing whatever
// background task is holding the snapshot.
//
// Mirrors the two-state enum in original_source/src/ext/alc_vec.rs; no
// single teacher file has an equivalent, so this is built directly from
// the spec's contract.
package alcvec

// AlcVec is not safe for concurrent use on its own; callers serialize
// access the same way the reactor serializes all state mutation (spec §5).
type AlcVec[T any] struct {
	shared *[]T // non-nil only while in the Shared state
	owned  []T  // valid only while in the Owned state
}

// New creates an AlcVec in the Owned state holding a copy of init.
func New[T any](init []T) *AlcVec[T] {
	owned := make([]T, len(init))
	copy(owned, init)
	return &AlcVec[T]{owned: owned}
}

// isShared reports whether the vector is currently in the Shared state.
func (v *AlcVec[T]) isShared() bool { return v.shared != nil }

// view returns the slice backing the vector regardless of state, for
// read-only operations that work identically in both states.
func (v *AlcVec[T]) view() []T {
	if v.isShared() {
		return *v.shared
	}
	return v.owned
}

// Len returns the number of elements.
func (v *AlcVec[T]) Len() int { return len(v.view()) }

// At returns the element at index i and whether i was in range.
func (v *AlcVec[T]) At(i int) (T, bool) {
	s := v.view()
	var zero T
	if i < 0 || i >= len(s) {
		return zero, false
	}
	return s[i], true
}

// All returns a read-only view of every element. Callers in the Shared
// state see the shared backing array directly (no copy); callers must not
// mutate the returned slice.
func (v *AlcVec[T]) All() []T { return v.view() }

// ensureOwned transitions Shared → Owned, copying the shared slice if it
// is still referenced by anyone else (we can't distinguish "referenced
// elsewhere" without a refcount, so a copy is always made on the first
// mutation after a Snapshot — matching the contract's "reclaim or copy"
// language conservatively in favor of correctness over a spared copy).
func (v *AlcVec[T]) ensureOwned() {
	if !v.isShared() {
		return
	}
	src := *v.shared
	owned := make([]T, len(src))
	copy(owned, src)
	v.owned = owned
	v.shared = nil
}

// Append adds an element, copying on write if currently Shared.
func (v *AlcVec[T]) Append(item T) {
	v.ensureOwned()
	v.owned = append(v.owned, item)
}

// Set replaces the element at index i, copying on write if currently Shared.
func (v *AlcVec[T]) Set(i int, item T) bool {
	if i < 0 || i >= v.Len() {
		return false
	}
	v.ensureOwned()
	v.owned[i] = item
	return true
}

// Truncate drops everything from index n onward, copying on write if
// currently Shared. Used by trailing-tombstone compaction at save time.
func (v *AlcVec[T]) Truncate(n int) {
	v.ensureOwned()
	if n < len(v.owned) {
		v.owned = v.owned[:n]
	}
}

// Snapshot forces Owned → Shared and returns an immutable handle safe to
// pass to a background task. Subsequent mutation on the originating side
// will copy-on-write and leave this handle's contents untouched.
func (v *AlcVec[T]) Snapshot() *Snapshot[T] {
	if !v.isShared() {
		frozen := v.owned
		v.shared = &frozen
		v.owned = nil
	}
	return &Snapshot[T]{data: v.shared}
}

// Snapshot is an immutable handle to an AlcVec's contents at the moment it
// was taken. A background task may read it freely; it is never mutated.
type Snapshot[T any] struct {
	data *[]T
}

// All returns every element of the snapshot.
func (s *Snapshot[T]) All() []T {
	if s.data == nil {
		return nil
	}
	return *s.data
}

// Len returns the number of elements in the snapshot.
func (s *Snapshot[T]) Len() int { return len(s.All()) }
