package state

import (
	"encoding/json"
	"fmt"
)

// Sticker is an image placed over the drawing. Selected is editor state and
// is not part of the stored drawing data.
type Sticker struct {
	ID       string  `json:"id"`
	URI      string  `json:"uri"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Selected bool    `json:"-"`
}

func (st Sticker) MarshalJSON() ([]byte, error) {
	type sticker Sticker
	return json.Marshal(struct {
		Type string `json:"type"`
		sticker
	}{"sticker", sticker(st)})
}

// Bounds returns the area covered by the sticker.
func (st Sticker) Bounds() Rect {
	return Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height}
}

func checkGeometry(w, h float64) error {
	if !(w > 0) || !(h > 0) {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidGeometry, w, h)
	}
	return nil
}

// Place adds a new sticker on top of the others and returns it.
func (s *Scene) Place(uri string, x, y, w, h float64) (Sticker, error) {
	if uri == "" {
		return Sticker{}, ErrMissingSource
	}
	if err := checkGeometry(w, h); err != nil {
		return Sticker{}, err
	}
	st := Sticker{ID: newID(), URI: uri, X: x, Y: y, Width: w, Height: h}
	s.stickers = append(s.stickers, st)
	return st, nil
}

func (s *Scene) find(id string) (int, error) {
	for i := range s.stickers {
		if s.stickers[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrStickerNotFound, id)
}

// Select marks the sticker with the given id as the only selected one.
func (s *Scene) Select(id string) error {
	idx, err := s.find(id)
	if err != nil {
		return err
	}
	for i := range s.stickers {
		s.stickers[i].Selected = i == idx
	}
	return nil
}

// Deselect clears the selection.
func (s *Scene) Deselect() {
	for i := range s.stickers {
		s.stickers[i].Selected = false
	}
}

// Selected returns the selected sticker, if any.
func (s *Scene) Selected() (Sticker, bool) {
	for _, st := range s.stickers {
		if st.Selected {
			return st, true
		}
	}
	return Sticker{}, false
}

// Move sets the top-left corner of a sticker.
func (s *Scene) Move(id string, x, y float64) error {
	idx, err := s.find(id)
	if err != nil {
		return err
	}
	s.stickers[idx].X = x
	s.stickers[idx].Y = y
	return nil
}

func (s *Scene) Resize(id string, w, h float64) error {
	if err := checkGeometry(w, h); err != nil {
		return err
	}
	idx, err := s.find(id)
	if err != nil {
		return err
	}
	s.stickers[idx].Width = w
	s.stickers[idx].Height = h
	return nil
}

func (s *Scene) Delete(id string) error {
	idx, err := s.find(id)
	if err != nil {
		return err
	}
	s.stickers = append(s.stickers[:idx], s.stickers[idx+1:]...)
	return nil
}

// StickerAt returns the topmost sticker under p.
func (s *Scene) StickerAt(p Point) (Sticker, bool) {
	for i := len(s.stickers) - 1; i >= 0; i-- {
		if s.stickers[i].Bounds().Contains(p) {
			return s.stickers[i], true
		}
	}
	return Sticker{}, false
}
