package runtime

// Generation is a monotonic counter used to invalidate deferred callbacks.
// A callback captures the current value when it is scheduled and does nothing
// if the counter moved on before it fires.
type Generation struct {
	n uint64
}

// Current returns the current generation.
func (g *Generation) Current() uint64 {
	return g.n
}

// Advance moves to a new generation and returns it.
func (g *Generation) Advance() uint64 {
	g.n++
	return g.n
}

// Is reports whether at is still the current generation.
func (g *Generation) Is(at uint64) bool {
	return g.n == at
}
