package state

// History is a LIFO stack of scene snapshots. Entries are consumed by Pop;
// there is no redo.
type History struct {
	entries []Snapshot
	limit   int
}

// NewHistory returns an empty stack holding at most limit entries, dropping
// the oldest when full. A limit of zero or less means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push stores a copy of snap.
func (h *History) Push(snap Snapshot) {
	h.entries = append(h.entries, snap.clone())
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
	}
}

// Pop removes and returns the newest entry.
func (h *History) Pop() (Snapshot, bool) {
	if len(h.entries) == 0 {
		return Snapshot{}, false
	}
	top := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = Snapshot{}
	h.entries = h.entries[:len(h.entries)-1]
	return top, true
}

func (h *History) Len() int { return len(h.entries) }

// Reset drops every entry.
func (h *History) Reset() { h.entries = nil }
