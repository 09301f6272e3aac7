// Package arena is the backing store for structs, enums, functions,
// modules, and type variables: every nominal entity the checker creates is
// assigned a stable id on first registration and never moves or is reused.
package arena

// ID is a stable identifier into an Arena. IDs are unique within the arena
// that minted them and are never reused, even if the entry they name is
// later overwritten (e.g. during late-phase hydration of a struct's
// fields).
type ID int

// Arena is an append-only typed store indexed by ID. It is not safe for
// concurrent use; the checker runs single-threaded.
type Arena[T any] struct {
	entries []T
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc appends a new entry and returns its freshly minted, never-reused id.
func (a *Arena[T]) Alloc(entry T) ID {
	id := ID(len(a.entries))
	a.entries = append(a.entries, entry)
	return id
}

// Get returns the entry for id. It panics on an out-of-range id, which
// indicates a bug in the caller: every id the checker hands out came from
// this arena's own Alloc.
func (a *Arena[T]) Get(id ID) T {
	return a.entries[id]
}

// Set overwrites the entry for id in place, used by the late-checking
// phase to fill in a struct's fields or an enum's variants after the
// early phase registered an empty placeholder.
func (a *Arena[T]) Set(id ID, entry T) {
	a.entries[id] = entry
}

// Len reports how many entries have been allocated.
func (a *Arena[T]) Len() int {
	return len(a.entries)
}

// All iterates every (id, entry) pair in allocation order.
func (a *Arena[T]) All(yield func(ID, T) bool) {
	for i, e := range a.entries {
		if !yield(ID(i), e) {
			return
		}
	}
}
