package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func init() {
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("sticker-%d", n)
	}
}

func line(x float64) Stroke {
	return Stroke{Points: []Point{{x, 0}, {x, 10}}, Color: "#000000", Width: 3}
}

func TestScene_AppendOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5, 50} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			s := NewScene()
			var want []Stroke
			for i := 0; i < n; i++ {
				st := line(float64(i))
				s.AppendStroke(st)
				want = append(want, st)
			}
			got := s.Strokes()
			if len(got) != n {
				t.Fatalf("len(Strokes()) = %d, want %d", len(got), n)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScene_ClearUndoRoundTrip(t *testing.T) {
	s := NewScene()
	h := NewHistory(0)
	s.AppendStroke(line(1))
	s.AppendStroke(line(2))
	st, err := s.Place("cloud.png", 5, 5, 40, 30)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Select(st.ID); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	s.Clear(h)
	if s.StrokeCount() != 0 || s.StickerCount() != 0 {
		t.Fatalf("after Clear: %s", s)
	}
	if h.Len() != 1 {
		t.Fatalf("History.Len() = %d, want 1", h.Len())
	}

	if !s.Undo(h) {
		t.Fatal("Undo() = false, want true")
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("undo did not restore the scene (-want +got):\n%s", diff)
	}

	// second undo has nothing left to restore
	s.AppendStroke(line(3))
	if s.Undo(h) {
		t.Error("second Undo() = true, want false")
	}
	if s.StrokeCount() != 3 {
		t.Errorf("StrokeCount() = %d after no-op undo, want 3", s.StrokeCount())
	}
}

func TestScene_SnapshotIsolation(t *testing.T) {
	s := NewScene()
	h := NewHistory(0)
	s.AppendStroke(line(1))
	h.Push(s.Snapshot())

	got := s.Strokes()
	got[0].Points[0].X = 99
	s.AppendStroke(line(2))
	st, _ := s.Place("a.png", 0, 0, 1, 1)
	_ = s.Move(st.ID, 50, 50)

	snap, _ := h.Pop()
	want := Snapshot{Strokes: []Stroke{line(1)}}
	if diff := cmp.Diff(want, snap, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot changed after scene mutation (-want +got):\n%s", diff)
	}
	if s.Strokes()[0].Points[0].X != 1 {
		t.Error("Strokes() returned memory shared with the scene")
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	for i := 1; i <= 3; i++ {
		h.Push(Snapshot{Strokes: []Stroke{line(float64(i))}})
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	for _, want := range []float64{3, 2} {
		snap, ok := h.Pop()
		if !ok {
			t.Fatal("Pop() = false")
		}
		if got := snap.Strokes[0].Points[0].X; got != want {
			t.Errorf("Pop() stroke x = %v, want %v", got, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop() on empty history = true")
	}
}

func TestStickers_Place(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		w, h    float64
		wantErr error
	}{
		{"ok", "sun.png", 10, 20, nil},
		{"zero width", "sun.png", 0, 20, ErrInvalidGeometry},
		{"negative height", "sun.png", 10, -1, ErrInvalidGeometry},
		{"no source", "", 10, 10, ErrMissingSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			st, err := s.Place(tt.uri, 1, 2, tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Place() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if s.StickerCount() != 0 {
					t.Error("rejected sticker was added")
				}
				return
			}
			if st.ID == "" {
				t.Error("sticker has no id")
			}
			if s.StickerCount() != 1 {
				t.Errorf("StickerCount() = %d, want 1", s.StickerCount())
			}
		})
	}
}

func TestStickers_SingleSelection(t *testing.T) {
	s := NewScene()
	a, _ := s.Place("a.png", 0, 0, 10, 10)
	b, _ := s.Place("b.png", 20, 0, 10, 10)

	if err := s.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Select(b.ID); err != nil {
		t.Fatal(err)
	}

	selected := 0
	for _, st := range s.Stickers() {
		if st.Selected {
			selected++
			if st.ID != b.ID {
				t.Errorf("selected %s, want %s", st.ID, b.ID)
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d stickers selected, want 1", selected)
	}

	if err := s.Select("nope"); !errors.Is(err, ErrStickerNotFound) {
		t.Errorf("Select(unknown) error = %v, want ErrStickerNotFound", err)
	}
	s.Deselect()
	if _, ok := s.Selected(); ok {
		t.Error("Selected() after Deselect = true")
	}
}

func TestStickers_EditAndHit(t *testing.T) {
	s := NewScene()
	below, _ := s.Place("a.png", 0, 0, 50, 50)
	above, _ := s.Place("b.png", 25, 25, 50, 50)

	if got, _ := s.StickerAt(Point{30, 30}); got.ID != above.ID {
		t.Errorf("StickerAt(overlap) = %s, want topmost %s", got.ID, above.ID)
	}
	if got, _ := s.StickerAt(Point{5, 5}); got.ID != below.ID {
		t.Errorf("StickerAt(5,5) = %s, want %s", got.ID, below.ID)
	}
	if _, ok := s.StickerAt(Point{200, 200}); ok {
		t.Error("StickerAt(outside) found a sticker")
	}

	if err := s.Resize(above.ID, 0, 5); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Resize(0 width) error = %v", err)
	}
	if err := s.Resize(above.ID, 10, 5); err != nil {
		t.Fatal(err)
	}
	if err := s.Move(above.ID, 100, 100); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.StickerAt(Point{105, 102}); got.ID != above.ID {
		t.Errorf("StickerAt after move = %q", got.ID)
	}

	if err := s.Delete(below.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(below.ID); !errors.Is(err, ErrStickerNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
	if s.StickerCount() != 1 {
		t.Errorf("StickerCount() = %d, want 1", s.StickerCount())
	}
}
