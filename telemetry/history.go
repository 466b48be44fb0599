package telemetry

import "github.com/pthm-cable/flux/components"

// History is a bounded ring of collision events. When full, the oldest
// event is overwritten. The analysis window reads from it without ever
// mutating it.
type History struct {
	events []components.CollisionEvent
	idx    int
	full   bool
}

// NewHistory creates a ring with the given capacity (minimum 1).
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{events: make([]components.CollisionEvent, capacity)}
}

// Push appends an event, overwriting the oldest when at capacity.
func (h *History) Push(ev components.CollisionEvent) {
	h.events[h.idx] = ev
	h.idx = (h.idx + 1) % len(h.events)
	if h.idx == 0 {
		h.full = true
	}
}

// Len returns the number of retained events.
func (h *History) Len() int {
	if h.full {
		return len(h.events)
	}
	return h.idx
}

// Capacity returns the ring capacity.
func (h *History) Capacity() int {
	return len(h.events)
}

// Resize changes the capacity, retaining the newest events that fit.
func (h *History) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(h.events) {
		return
	}
	kept := h.Events()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	h.events = make([]components.CollisionEvent, capacity)
	h.idx = 0
	h.full = false
	for _, ev := range kept {
		h.Push(ev)
	}
}

// Events returns the retained events in chronological order. The returned
// slice is a copy.
func (h *History) Events() []components.CollisionEvent {
	out := make([]components.CollisionEvent, 0, h.Len())
	if h.full {
		out = append(out, h.events[h.idx:]...)
	}
	out = append(out, h.events[:h.idx]...)
	return out
}

// InWindow returns retained events with timestamps in [from, to), in
// chronological order.
func (h *History) InWindow(from, to float64) []components.CollisionEvent {
	var out []components.CollisionEvent
	for _, ev := range h.Events() {
		if ev.Time >= from && ev.Time < to {
			out = append(out, ev)
		}
	}
	return out
}
