// Package ui is the desktop surface of the editor: a canvas widget feeding
// pointer input to an editor session, the tool bar, and the save and gallery
// dialogs.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"cloudoodle/internal/config"
	"cloudoodle/internal/editor"
	"cloudoodle/internal/gallery"
	"cloudoodle/internal/logging"
	sharenet "cloudoodle/internal/net"
)

const appID = "app.cloudoodle.editor"

// Editor bundles what the editor window needs.
type Editor struct {
	Config    config.Config
	Session   *editor.Session
	Gallery   Gallery
	ShareLink string // empty when sharing is off
}

// Build lays out the editor window content and wires session callbacks to
// it. It is split from RunEditor so tests can drive it with a test app.
func (e Editor) Build(win fyne.Window) *DoodleCanvas {
	board := NewDoodleCanvas(e.Session)
	tb, bar := newToolbar(e.Session, e.Config, win, func() {
		showGallery(e.Gallery, e.Session, win)
	})

	status := widget.NewLabel("Ready")
	if e.ShareLink != "" {
		status.SetText("Sharing at " + e.ShareLink)
	}

	onChange := e.Session.OnChange
	e.Session.OnChange = func() {
		if onChange != nil {
			onChange()
		}
		board.Refresh()
		tb.refresh()
	}
	onSaved := e.Session.OnSaved
	e.Session.OnSaved = func(d gallery.Doodle) {
		if onSaved != nil {
			onSaved(d)
		}
		status.SetText(fmt.Sprintf("Saved %q", d.Title))
		tb.refresh()
	}

	win.SetContent(container.NewBorder(bar, status, nil, nil, board))
	return board
}

// RunEditor opens the editor window and blocks until it is closed.
func RunEditor(e Editor) {
	a := app.NewWithID(appID)
	win := a.NewWindow("Cloudoodle")
	w, h := e.Session.Size()
	win.Resize(fyne.NewSize(float32(w)+40, float32(h)+90))
	e.Build(win)
	win.ShowAndRun()
}

// RunViewer follows the share hub at addr and shows each doodle as it is
// saved there.
func RunViewer(addr string) {
	log := logging.For("viewer")
	a := app.NewWithID(appID + ".viewer")
	win := a.NewWindow("Cloudoodle viewer")
	win.Resize(fyne.NewSize(640, 520))

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	title := widget.NewLabel("Waiting for doodles from " + addr)
	win.SetContent(container.NewBorder(nil, title, nil, nil, img))

	ctx, cancel := context.WithCancel(context.Background())
	win.SetOnClosed(cancel)

	go func() {
		err := sharenet.Subscribe(ctx, addr, func(an sharenet.Announcement) {
			data, err := sharenet.FetchImage(ctx, addr, an)
			if err != nil {
				log.Warn("fetching doodle", "id", an.ID, "err", err)
				return
			}
			decoded, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				log.Warn("decoding doodle", "id", an.ID, "err", err)
				return
			}
			fyne.Do(func() {
				img.Image = decoded
				img.Refresh()
				title.SetText(an.Title + "  " + an.Description)
			})
		})
		if err != nil && ctx.Err() == nil {
			fyne.Do(func() { title.SetText(fmt.Sprintf("Disconnected: %v", err)) })
		}
	}()
	win.ShowAndRun()
}
