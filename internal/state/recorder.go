package state

// Recorder turns one press-move-release gesture into a Stroke. Samples are
// joined with straight segments, no smoothing.
type Recorder struct {
	background string // eraser strokes are drawn in this color
	points     []Point
	active     bool
}

func NewRecorder(background string) *Recorder {
	return &Recorder{background: background}
}

// Begin starts a new path at p, dropping any unfinished one.
func (r *Recorder) Begin(p Point) {
	r.points = append(r.points[:0], Pt(p.X, p.Y))
	r.active = true
}

// Move extends the path to p. It does nothing outside a gesture.
func (r *Recorder) Move(p Point) {
	if !r.active {
		return
	}
	r.points = append(r.points, Pt(p.X, p.Y))
}

// End finishes the gesture. A gesture without any move sample is discarded
// and reports false.
func (r *Recorder) End(t Tools) (Stroke, bool) {
	defer r.Reset()
	if !r.active || len(r.points) < 2 {
		return Stroke{}, false
	}
	return r.stroke(t), true
}

// Pending returns the path being drawn, styled as End would style it.
func (r *Recorder) Pending(t Tools) (Stroke, bool) {
	if !r.active {
		return Stroke{}, false
	}
	return r.stroke(t), true
}

func (r *Recorder) Active() bool { return r.active }

// Path returns the in-progress path data, empty outside a gesture.
func (r *Recorder) Path() string {
	if !r.active {
		return ""
	}
	return FormatPath(r.points)
}

// Reset drops the in-progress path.
func (r *Recorder) Reset() {
	r.points = r.points[:0]
	r.active = false
}

func (r *Recorder) stroke(t Tools) Stroke {
	st := Stroke{
		Points: append([]Point(nil), r.points...),
		Color:  t.Color,
		Width:  t.Width,
	}
	if t.Eraser {
		st.Color = r.background
		st.Width = t.Width * 2
	}
	return st
}
