package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func draw(r *Recorder, t Tools, pts ...Point) (Stroke, bool) {
	r.Begin(pts[0])
	for _, p := range pts[1:] {
		r.Move(p)
	}
	return r.End(t)
}

func TestRecorder_Gesture(t *testing.T) {
	r := NewRecorder("#FFFFFF")
	tools := Tools{Color: "#FF0000", Width: 3}

	got, ok := draw(r, tools, Point{10, 10}, Point{20, 10}, Point{20, 20})
	if !ok {
		t.Fatal("End() reported no stroke")
	}
	want := Stroke{
		Points: []Point{{10, 10}, {20, 10}, {20, 20}},
		Color:  "#FF0000",
		Width:  3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stroke mismatch (-want +got):\n%s", diff)
	}
	if r.Active() {
		t.Error("recorder still active after End")
	}
	if r.Path() != "" {
		t.Errorf("Path() = %q after End, want empty", r.Path())
	}
}

func TestRecorder_Eraser(t *testing.T) {
	r := NewRecorder("#FFFFFF")
	got, ok := draw(r, Tools{Color: "#00FF00", Width: 5, Eraser: true}, Point{1, 1}, Point{2, 2})
	if !ok {
		t.Fatal("End() reported no stroke")
	}
	if got.Width != 10 {
		t.Errorf("Width = %v, want 10", got.Width)
	}
	if got.Color != "#FFFFFF" {
		t.Errorf("Color = %q, want #FFFFFF", got.Color)
	}
}

func TestRecorder_Degenerate(t *testing.T) {
	r := NewRecorder("#FFFFFF")
	tools := Tools{Color: "#000000", Width: 3}

	t.Run("press and release", func(t *testing.T) {
		r.Begin(Point{5, 5})
		if _, ok := r.End(tools); ok {
			t.Error("single sample produced a stroke")
		}
	})

	t.Run("end without begin", func(t *testing.T) {
		if _, ok := r.End(tools); ok {
			t.Error("End without Begin produced a stroke")
		}
	})

	t.Run("move without begin", func(t *testing.T) {
		r.Move(Point{1, 1})
		if r.Active() {
			t.Error("Move started a gesture")
		}
	})
}

func TestRecorder_Precision(t *testing.T) {
	r := NewRecorder("#FFFFFF")
	r.Begin(Point{10.006, 3.14159})
	r.Move(Point{20.5, 7})

	if got, want := r.Path(), "M10.01,3.14 L20.50,7.00"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	pending, ok := r.Pending(Tools{Color: "#000000", Width: 1})
	if !ok || len(pending.Points) != 2 {
		t.Fatalf("Pending() = %v, %v", pending, ok)
	}
}

func TestRecorder_NoAliasing(t *testing.T) {
	r := NewRecorder("#FFFFFF")
	tools := Tools{Color: "#000000", Width: 1}
	first, _ := draw(r, tools, Point{0, 0}, Point{1, 1})
	draw(r, tools, Point{9, 9}, Point{8, 8})

	if first.Points[0] != (Point{0, 0}) {
		t.Errorf("first stroke changed by later gesture: %v", first.Points)
	}
}
