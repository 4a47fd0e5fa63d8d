package memory

// DefaultHistory is how many recent entries the recorders keep.
const DefaultHistory = 1024

// History keeps the last N entries it was given and a count of all of them.
// It is not safe for concurrent use; the recorders guard it with their mutex.
type History[T any] struct {
	items []T
	next  int
	total int
	limit int
}

// NewHistory creates a history keeping at most limit entries. A limit below
// one keeps a single entry.
func NewHistory[T any](limit int) *History[T] {
	if limit < 1 {
		limit = 1
	}
	return &History[T]{limit: limit}
}

// Add records v, evicting the oldest entry when full.
func (h *History[T]) Add(v T) {
	h.total++
	if len(h.items) < h.limit {
		h.items = append(h.items, v)
		return
	}
	h.items[h.next] = v
	h.next = (h.next + 1) % h.limit
}

// Total is the number of entries ever added.
func (h *History[T]) Total() int { return h.total }

// Items returns the retained entries, oldest first.
func (h *History[T]) Items() []T {
	out := make([]T, 0, len(h.items))
	out = append(out, h.items[h.next:]...)
	return append(out, h.items[:h.next]...)
}
