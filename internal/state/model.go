package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidGeometry = errors.New("sticker width and height must be positive")
	ErrMissingSource   = errors.New("sticker needs a source image")
	ErrStickerNotFound = errors.New("sticker not found")
	ErrBadPath         = errors.New("malformed path data")
	ErrBadColor        = errors.New("malformed hex color")
)

// Point is a position in canvas pixels.
type Point struct{ X, Y float64 }

// Pt rounds x and y to the precision used by path data.
func Pt(x, y float64) Point {
	return Point{X: round2(x), Y: round2(y)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stroke is one finished freehand line. Its points are never modified after
// the recorder hands it out; the scene stores and returns copies.
type Stroke struct {
	Points []Point
	Color  string  // #RRGGBB
	Width  float64 // pixels
}

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// Path returns the stroke as M/L path commands.
func (s Stroke) Path() string {
	return FormatPath(s.Points)
}

// Bounds is the area the stroke paints, including half its width on each side.
func (s Stroke) Bounds() Rect {
	return BoundsOf(s.Points, s.Width/2)
}

type strokeJSON struct {
	Path  string  `json:"path"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// MarshalJSON stores a stroke as {path, color, width}, the layout the doodles
// table uses for drawing data.
func (s Stroke) MarshalJSON() ([]byte, error) {
	return json.Marshal(strokeJSON{Path: s.Path(), Color: s.Color, Width: s.Width})
}

func (s *Stroke) UnmarshalJSON(data []byte) error {
	var raw strokeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	points, err := ParsePath(raw.Path)
	if err != nil {
		return err
	}
	color, err := NormalizeColor(raw.Color)
	if err != nil {
		return err
	}
	if raw.Width <= 0 {
		return fmt.Errorf("stroke width %v: must be positive", raw.Width)
	}
	*s = Stroke{Points: points, Color: color, Width: raw.Width}
	return nil
}

// Tools is the editor's current pen setup. It is read when a gesture ends.
type Tools struct {
	Color  string
	Width  float64
	Eraser bool
}

// Snapshot is a value copy of a scene's content. Snapshots returned by this
// package share no memory with the scene they came from.
type Snapshot struct {
	Strokes  []Stroke  `json:"paths"`
	Stickers []Sticker `json:"assets"`
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Strokes:  make([]Stroke, len(s.Strokes)),
		Stickers: make([]Sticker, len(s.Stickers)),
	}
	for i, st := range s.Strokes {
		out.Strokes[i] = st.clone()
	}
	copy(out.Stickers, s.Stickers)
	return out
}
