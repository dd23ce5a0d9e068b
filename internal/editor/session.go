// Package editor runs one doodle editing session: it feeds pointer input to
// the stroke recorder, applies tool and sticker commands to the scene, keeps
// the undo history, and drives the save dialog state.
//
// A Session is used from a single goroutine (the UI event loop).
package editor

import (
	"image"
	"log/slog"
	"time"

	"cloudoodle/internal/config"
	"cloudoodle/internal/gallery"
	"cloudoodle/internal/logging"
	"cloudoodle/internal/render"
	"cloudoodle/internal/state"
)

type Options struct {
	Width, Height int
	Background    string
	Color         string
	StrokeWidth   float64

	// UndoEvery snapshots before every scene change instead of only before
	// Clear.
	UndoEvery    bool
	HistoryLimit int

	Now func() time.Time
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Width:        cfg.CanvasWidth,
		Height:       cfg.CanvasHeight,
		Background:   cfg.Background,
		Color:        cfg.DefaultColor,
		StrokeWidth:  cfg.DefaultWidth,
		UndoEvery:    cfg.UndoGranularity == config.UndoEvery,
		HistoryLimit: cfg.HistoryLimit,
	}
}

type Session struct {
	opts     Options
	scene    *state.Scene
	history  *state.History
	recorder *state.Recorder
	tools    state.Tools
	photo    string

	mode      Mode
	title     string
	editingID string

	renderer *render.Renderer
	store    Store
	log      *slog.Logger

	// OnChange runs after every change that affects the rendered image.
	OnChange func()
	// OnSaved runs after the store accepted a doodle.
	OnSaved func(gallery.Doodle)
}

func New(opts Options, renderer *render.Renderer, store Store) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		opts:     opts,
		scene:    state.NewScene(),
		history:  state.NewHistory(opts.HistoryLimit),
		recorder: state.NewRecorder(opts.Background),
		tools:    state.Tools{Color: opts.Color, Width: opts.StrokeWidth},
		renderer: renderer,
		store:    store,
		log:      logging.For("editor"),
	}
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// checkpoint records an undo entry when every change is undoable.
func (s *Session) checkpoint() {
	if s.opts.UndoEvery {
		s.history.Push(s.scene.Snapshot())
	}
}

// SetPhoto sets the background photo reference.
func (s *Session) SetPhoto(ref string) {
	s.replacePhoto(ref)
	s.changed()
}

// replacePhoto releases the decoded image of the previous photo.
func (s *Session) replacePhoto(ref string) {
	if s.photo != "" && s.photo != ref {
		s.renderer.Forget(s.photo)
	}
	s.photo = ref
}

func (s *Session) Photo() string { return s.photo }

func (s *Session) Strokes() []state.Stroke { return s.scene.Strokes() }
func (s *Session) Stickers() []state.Sticker { return s.scene.Stickers() }

// Size returns the canvas size in pixels.
func (s *Session) Size() (int, int) { return s.opts.Width, s.opts.Height }

// PointerDown starts a stroke.
func (s *Session) PointerDown(x, y float64) {
	s.recorder.Begin(state.Point{X: x, Y: y})
	s.changed()
}

func (s *Session) PointerMove(x, y float64) {
	if !s.recorder.Active() {
		return
	}
	s.recorder.Move(state.Point{X: x, Y: y})
	s.changed()
}

// PointerUp ends the gesture and records the stroke, if any.
func (s *Session) PointerUp() {
	if !s.recorder.Active() {
		return
	}
	st, ok := s.recorder.End(s.tools)
	if ok {
		s.checkpoint()
		s.scene.AppendStroke(st)
		s.log.Debug("stroke recorded", "points", len(st.Points), "color", st.Color, "width", st.Width)
	}
	s.changed()
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.recorder.Active() }

// Undo restores the newest history entry. Without history it does nothing.
func (s *Session) Undo() bool {
	if !s.scene.Undo(s.history) {
		return false
	}
	s.recorder.Reset()
	s.changed()
	return true
}

func (s *Session) CanUndo() bool { return s.history.Len() > 0 }

// Clear empties the canvas after saving an undo entry.
func (s *Session) Clear() {
	s.scene.Clear(s.history)
	s.recorder.Reset()
	s.log.Info("canvas cleared", "history", s.history.Len())
	s.changed()
}

// Frame describes the current canvas for the renderer, including the
// gesture in progress.
func (s *Session) Frame() render.Frame {
	f := s.baseFrame()
	if live, ok := s.recorder.Pending(s.tools); ok {
		f.Live = &live
	}
	return f
}

func (s *Session) baseFrame() render.Frame {
	return render.Frame{
		Width:      s.opts.Width,
		Height:     s.opts.Height,
		Background: s.opts.Background,
		Photo:      s.photo,
		Strokes:    s.scene.Strokes(),
		Stickers:   s.scene.Stickers(),
	}
}

// Render draws the canvas as it is shown while editing.
func (s *Session) Render() (*image.RGBA, error) {
	return s.renderer.Render(s.Frame())
}
