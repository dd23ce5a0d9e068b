package state

import "fmt"

// Scene is the drawing being edited: strokes in the order they were drawn and
// the stickers placed over them. A Scene belongs to one editor session and is
// not safe for concurrent use.
type Scene struct {
	strokes  []Stroke
	stickers []Sticker
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) String() string {
	return fmt.Sprintf("Scene: strokes: %d stickers: %d", len(s.strokes), len(s.stickers))
}

// Strokes returns a copy of the strokes in insertion order.
func (s *Scene) Strokes() []Stroke {
	out := make([]Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = st.clone()
	}
	return out
}

// Stickers returns a copy of the stickers in placement order.
func (s *Scene) Stickers() []Sticker {
	return append([]Sticker{}, s.stickers...)
}

func (s *Scene) StrokeCount() int { return len(s.strokes) }
func (s *Scene) StickerCount() int { return len(s.stickers) }

// AppendStroke adds a finished stroke on top of the existing ones.
func (s *Scene) AppendStroke(st Stroke) {
	s.strokes = append(s.strokes, st.clone())
}

// Snapshot returns a deep copy of the scene content.
func (s *Scene) Snapshot() Snapshot {
	return Snapshot{Strokes: s.strokes, Stickers: s.stickers}.clone()
}

// Restore replaces the scene content with a copy of snap.
func (s *Scene) Restore(snap Snapshot) {
	c := snap.clone()
	s.strokes = c.Strokes
	s.stickers = c.Stickers
}

// Clear pushes the current content onto h and then empties the scene.
func (s *Scene) Clear(h *History) {
	h.Push(s.Snapshot())
	s.strokes = nil
	s.stickers = nil
}

// Undo restores the most recent entry of h. It reports false and leaves the
// scene alone when h is empty.
func (s *Scene) Undo(h *History) bool {
	snap, ok := h.Pop()
	if !ok {
		return false
	}
	s.Restore(snap)
	return true
}
