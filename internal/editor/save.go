package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloudoodle/internal/gallery"
	"cloudoodle/internal/render"
)

var (
	ErrTitleRequired    = errors.New("please enter a title for your doodle")
	ErrNotAwaitingTitle = errors.New("save dialog is not open")
)

// Store accepts finished doodles. gallery.FileStore implements it.
type Store interface {
	Save(ctx context.Context, d gallery.Doodle) (gallery.Doodle, error)
}

// Mode is the state of the save dialog.
type Mode int

const (
	Idle Mode = iota
	AwaitingTitle
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case AwaitingTitle:
		return "AwaitingTitle"
	default:
		return "Unknown"
	}
}

func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Title() string { return s.title }
func (s *Session) SetTitle(t string) { s.title = t }

// BeginSave opens the save dialog.
func (s *Session) BeginSave() {
	s.mode = AwaitingTitle
}

// CancelSave closes the save dialog. The typed title is kept for the next
// attempt.
func (s *Session) CancelSave() {
	s.mode = Idle
}

// Save renders the canvas and hands it to the store. On any failure the
// dialog stays open and the scene is untouched so the user can retry; on
// success the dialog closes and the title is cleared.
func (s *Session) Save(ctx context.Context) (gallery.Doodle, error) {
	if s.mode != AwaitingTitle {
		return gallery.Doodle{}, ErrNotAwaitingTitle
	}
	title := strings.TrimSpace(s.title)
	if title == "" {
		return gallery.Doodle{}, ErrTitleRequired
	}

	// The saved image shows stickers as placed, not as selected.
	f := s.baseFrame()
	for i := range f.Stickers {
		f.Stickers[i].Selected = false
	}
	img, err := s.renderer.Render(f)
	if err != nil {
		return gallery.Doodle{}, fmt.Errorf("rendering doodle: %w", err)
	}
	png, err := render.EncodePNG(img)
	if err != nil {
		return gallery.Doodle{}, err
	}

	now := s.opts.Now()
	d := gallery.Doodle{
		ID:          s.editingID,
		Title:       title,
		Description: "Created " + now.Format("Jan 2, 2006"),
		ImageURL:    render.DataURI("image/png", png),
		PhotoURL:    s.photo,
		DrawingData: s.scene.Snapshot(),
		CreatedAt:   now,
	}
	saved, err := s.store.Save(ctx, d)
	if err != nil {
		s.log.Error("saving doodle failed", "title", title, "err", err)
		return gallery.Doodle{}, fmt.Errorf("saving doodle: %w", err)
	}

	s.log.Info("doodle saved", "id", saved.ID, "title", saved.Title)
	s.mode = Idle
	s.title = ""
	if s.OnSaved != nil {
		s.OnSaved(saved)
	}
	return saved, nil
}

// Load opens a saved doodle for editing. Saving afterwards replaces it.
func (s *Session) Load(d gallery.Doodle) {
	s.recorder.Reset()
	s.history.Reset()
	s.scene.Restore(d.DrawingData)
	s.scene.Deselect()
	s.replacePhoto(d.PhotoURL)
	s.editingID = d.ID
	s.title = d.Title
	s.mode = Idle
	s.changed()
}
