package editor

import "cloudoodle/internal/state"

// PlaceSticker puts a new sticker on the canvas.
func (s *Session) PlaceSticker(uri string, x, y, w, h float64) (state.Sticker, error) {
	var st state.Sticker
	err := s.mutateSticker(func() (err error) {
		st, err = s.scene.Place(uri, x, y, w, h)
		return err
	})
	if err != nil {
		return state.Sticker{}, err
	}
	s.log.Debug("sticker placed", "id", st.ID, "uri", uri)
	return st, nil
}

// PlaceStickerCentered places a square sticker of the given size in the
// middle of the canvas.
func (s *Session) PlaceStickerCentered(uri string, size float64) (state.Sticker, error) {
	x := (float64(s.opts.Width) - size) / 2
	y := (float64(s.opts.Height) - size) / 2
	return s.PlaceSticker(uri, x, y, size, size)
}

func (s *Session) SelectSticker(id string) error {
	if err := s.scene.Select(id); err != nil {
		return err
	}
	s.changed()
	return nil
}

// TapAt selects the topmost sticker under (x, y), or clears the selection
// when there is none. It reports whether a sticker was hit.
func (s *Session) TapAt(x, y float64) bool {
	st, ok := s.scene.StickerAt(state.Point{X: x, Y: y})
	if ok {
		// st came from the scene, so Select cannot miss.
		_ = s.scene.Select(st.ID)
	} else {
		s.scene.Deselect()
	}
	s.changed()
	return ok
}

func (s *Session) SelectedSticker() (state.Sticker, bool) {
	return s.scene.Selected()
}

// mutateSticker runs fn and records the scene as it was before fn as an undo
// entry. A failed fn leaves the history untouched.
func (s *Session) mutateSticker(fn func() error) error {
	var before state.Snapshot
	if s.opts.UndoEvery {
		before = s.scene.Snapshot()
	}
	if err := fn(); err != nil {
		return err
	}
	if s.opts.UndoEvery {
		s.history.Push(before)
	}
	s.changed()
	return nil
}

func (s *Session) MoveSticker(id string, x, y float64) error {
	return s.mutateSticker(func() error { return s.scene.Move(id, x, y) })
}

func (s *Session) ResizeSticker(id string, w, h float64) error {
	return s.mutateSticker(func() error { return s.scene.Resize(id, w, h) })
}

func (s *Session) DeleteSticker(id string) error {
	return s.mutateSticker(func() error { return s.scene.Delete(id) })
}

// DeleteSelected removes the selected sticker. It reports false when
// nothing is selected.
func (s *Session) DeleteSelected() bool {
	st, ok := s.scene.Selected()
	if !ok {
		return false
	}
	return s.DeleteSticker(st.ID) == nil
}
