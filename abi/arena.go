package abi

// Arena owns the Value trees built while demangling a batch of symbols for
// one build-graph step: heap-allocated children are owned by a per-step
// arena. It does not change Value's representation — Go's
// garbage collector already reclaims unreachable *Value trees — but it
// gives each step a single handle to drop all of its parsed trees at once,
// and a place to count allocations for diagnostics.
type Arena struct {
	values []*Value
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Own records v as belonging to this arena and returns it unchanged.
func (a *Arena) Own(v *Value) *Value {
	a.values = append(a.values, v)
	return v
}

// Len reports how many values the arena has recorded.
func (a *Arena) Len() int {
	return len(a.values)
}

// Reset releases the arena's references, letting the GC reclaim anything
// not held elsewhere. Call this when a build-graph step completes, the
// same way Builder.Free releases pooled device memory on step
// completion.
func (a *Arena) Reset() {
	a.values = nil
}
