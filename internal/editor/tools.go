package editor

import (
	"fmt"

	"cloudoodle/internal/state"
)

func (s *Session) Tools() state.Tools { return s.tools }

// SetColor picks a pen color and leaves eraser mode.
func (s *Session) SetColor(hex string) error {
	c, err := state.NormalizeColor(hex)
	if err != nil {
		return err
	}
	s.tools.Color = c
	s.tools.Eraser = false
	return nil
}

func (s *Session) SetWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("stroke width %v must be positive", w)
	}
	s.tools.Width = w
	return nil
}

func (s *Session) SetEraser(on bool) { s.tools.Eraser = on }

func (s *Session) ToggleEraser() bool {
	s.tools.Eraser = !s.tools.Eraser
	return s.tools.Eraser
}
