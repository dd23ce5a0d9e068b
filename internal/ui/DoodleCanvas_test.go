package ui

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/google/go-cmp/cmp"

	"cloudoodle/internal/config"
	"cloudoodle/internal/editor"
	"cloudoodle/internal/gallery"
	"cloudoodle/internal/render"
	"cloudoodle/internal/state"
)

type nopStore struct{ saved []gallery.Doodle }

func (n *nopStore) Save(_ context.Context, d gallery.Doodle) (gallery.Doodle, error) {
	d.ID = "d1"
	n.saved = append(n.saved, d)
	return d, nil
}

func newTestCanvas(t *testing.T) (*DoodleCanvas, *editor.Session) {
	t.Helper()
	test.NewTempApp(t)
	s := editor.New(editor.Options{
		Width:       100,
		Height:      80,
		Background:  "#FFFFFF",
		Color:       "#000000",
		StrokeWidth: 3,
	}, render.New(render.NewAssets()), &nopStore{})
	c := NewDoodleCanvas(s)
	// Twice the canvas size, so widget coordinates are canvas coordinates * 2.
	c.Resize(fyne.NewSize(200, 160))
	return c, s
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.NewDelta(dx, dy),
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		size         fyne.Size
		pos          fyne.Position
		wantX, wantY float64
	}{
		{fyne.NewSize(100, 80), fyne.NewPos(10, 20), 10, 20},
		{fyne.NewSize(200, 160), fyne.NewPos(10, 20), 5, 10},
		// Wider than the canvas: centered horizontally.
		{fyne.NewSize(300, 80), fyne.NewPos(110, 20), 10, 20},
		// Taller: centered vertically.
		{fyne.NewSize(100, 120), fyne.NewPos(10, 40), 10, 20},
	}
	for _, tt := range tests {
		x, y := newViewport(tt.size, 100, 80).toCanvas(tt.pos)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("size %v pos %v: got (%v, %v), want (%v, %v)", tt.size, tt.pos, x, y, tt.wantX, tt.wantY)
		}
	}

	if v := newViewport(fyne.NewSize(0, 0), 100, 80); v.scale != 1 {
		t.Errorf("zero-size viewport scale = %v", v.scale)
	}
}

func TestCanvasDrawsStroke(t *testing.T) {
	c, s := newTestCanvas(t)
	c.MouseDown(mouse(20, 20))
	c.Dragged(drag(40, 20, 20, 0))
	c.Dragged(drag(40, 40, 0, 20))
	c.MouseUp(mouse(40, 40))
	c.DragEnd()

	want := []state.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}}
	strokes := s.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	if diff := cmp.Diff(want, strokes[0].Points); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestCanvasTouchDrag(t *testing.T) {
	c, s := newTestCanvas(t)
	c.Dragged(drag(30, 20, 10, 0))
	c.Dragged(drag(40, 20, 10, 0))
	c.DragEnd()

	strokes := s.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	want := []state.Point{{X: 10, Y: 10}, {X: 15, Y: 10}, {X: 20, Y: 10}}
	if diff := cmp.Diff(want, strokes[0].Points); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestCanvasMovesSticker(t *testing.T) {
	c, s := newTestCanvas(t)
	st, err := s.PlaceSticker("sun.png", 0, 0, 20, 20)
	if err != nil {
		t.Fatal(err)
	}

	c.MouseDown(mouse(10, 10))
	c.Dragged(drag(30, 30, 20, 20))
	c.MouseUp(mouse(30, 30))

	got := s.Stickers()[0]
	if got.ID != st.ID || got.X != 10 || got.Y != 10 {
		t.Errorf("sticker after drag = %+v, want at (10, 10)", got)
	}
	if !got.Selected {
		t.Error("dragged sticker is not selected")
	}
	if n := len(s.Strokes()); n != 0 {
		t.Errorf("sticker drag drew %d strokes", n)
	}

	// A press on empty canvas drops the selection and draws.
	c.MouseDown(mouse(150, 150))
	c.Dragged(drag(160, 150, 10, 0))
	c.MouseUp(mouse(160, 150))
	if _, ok := s.SelectedSticker(); ok {
		t.Error("selection kept after drawing on empty canvas")
	}
	if n := len(s.Strokes()); n != 1 {
		t.Errorf("got %d strokes, want 1", n)
	}
}

func TestSecondaryButtonIgnored(t *testing.T) {
	c, s := newTestCanvas(t)
	e := mouse(20, 20)
	e.Button = desktop.MouseButtonSecondary
	c.MouseDown(e)
	if s.Drawing() {
		t.Error("secondary button started a stroke")
	}
}

func TestBuildChainsCallbacks(t *testing.T) {
	_, s := newTestCanvas(t)
	changes, saves := 0, 0
	s.OnChange = func() { changes++ }
	s.OnSaved = func(gallery.Doodle) { saves++ }

	win := test.NewWindow(nil)
	defer win.Close()
	board := Editor{Config: config.Default(), Session: s}.Build(win)
	board.Resize(fyne.NewSize(100, 80))

	board.MouseDown(mouse(10, 10))
	board.Dragged(drag(20, 20, 10, 10))
	board.MouseUp(mouse(20, 20))
	if changes != 3 {
		t.Errorf("previous OnChange ran %d times, want 3", changes)
	}

	s.BeginSave()
	s.SetTitle("Bunny")
	if _, err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if saves != 1 {
		t.Errorf("previous OnSaved ran %d times, want 1", saves)
	}
}
