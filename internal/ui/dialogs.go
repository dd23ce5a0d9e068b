package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"cloudoodle/internal/editor"
	"cloudoodle/internal/export"
	"cloudoodle/internal/gallery"
	"cloudoodle/internal/logging"
)

// showSaveDialog asks for a title and saves. On failure the error is shown
// and the dialog reopens with the typed title.
func showSaveDialog(s *editor.Session, win fyne.Window) {
	s.BeginSave()
	title := widget.NewEntry()
	title.SetPlaceHolder("Give your doodle a title")
	title.SetText(s.Title())

	form := dialog.NewForm("Save doodle", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Title", title)},
		func(ok bool) {
			s.SetTitle(title.Text)
			if !ok {
				s.CancelSave()
				return
			}
			if _, err := s.Save(context.Background()); err != nil {
				e := dialog.NewError(err, win)
				e.SetOnClosed(func() { showSaveDialog(s, win) })
				e.Show()
				return
			}
			dialog.ShowInformation("Saved", "Your doodle is in the gallery.", win)
		}, win)
	form.Resize(fyne.NewSize(360, 160))
	form.Show()
	win.Canvas().Focus(title)
}

// Gallery is what the gallery browser needs from the store.
type Gallery interface {
	List(ctx context.Context) ([]gallery.Doodle, error)
	Image(id string, thumbnail bool) ([]byte, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string) error
}

type galleryBrowser struct {
	store   Gallery
	session *editor.Session
	win     fyne.Window

	doodles  []gallery.Doodle
	selected int
	list     *widget.List
	preview  *canvas.Image
	caption  *widget.Label
	dlg      dialog.Dialog
}

func showGallery(store Gallery, s *editor.Session, win fyne.Window) {
	g := &galleryBrowser{store: store, session: s, win: win, selected: -1}
	if err := g.reload(); err != nil {
		dialog.ShowError(err, win)
		return
	}

	g.list = widget.NewList(
		func() int { return len(g.doodles) },
		func() fyne.CanvasObject { return widget.NewLabel("title") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			d := g.doodles[id]
			label := d.Title
			if d.IsLiked {
				label = "♥ " + label
			}
			o.(*widget.Label).SetText(label)
		})
	g.list.OnSelected = g.show

	g.preview = canvas.NewImageFromImage(nil)
	g.preview.FillMode = canvas.ImageFillContain
	g.preview.SetMinSize(fyne.NewSize(256, 192))
	g.caption = widget.NewLabel("")

	buttons := container.NewHBox(
		widget.NewButton("Edit", g.edit),
		widget.NewButton("Like", g.like),
		widget.NewButton("Export PDF", g.exportPDF),
		widget.NewButton("Delete", g.remove),
	)
	body := container.NewHSplit(g.list, container.NewBorder(nil, container.NewVBox(g.caption, buttons), nil, nil, g.preview))
	body.Offset = 0.35

	g.dlg = dialog.NewCustom("Gallery", "Close", body, win)
	g.dlg.Resize(fyne.NewSize(720, 480))
	g.dlg.Show()
}

func (g *galleryBrowser) reload() error {
	all, err := g.store.List(context.Background())
	if err != nil {
		return fmt.Errorf("loading gallery: %w", err)
	}
	g.doodles = all
	if g.selected >= len(all) {
		g.selected = -1
	}
	return nil
}

func (g *galleryBrowser) current() (gallery.Doodle, bool) {
	if g.selected < 0 || g.selected >= len(g.doodles) {
		return gallery.Doodle{}, false
	}
	return g.doodles[g.selected], true
}

func (g *galleryBrowser) show(id widget.ListItemID) {
	g.selected = id
	d := g.doodles[id]
	g.caption.SetText(fmt.Sprintf("%s\n%s  ♥ %d", d.Title, d.Description, d.Likes))

	data, err := g.store.Image(d.ID, true)
	if err != nil {
		logging.For("ui").Warn("loading thumbnail", "id", d.ID, "err", err)
		g.preview.Image = nil
		g.preview.Refresh()
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logging.For("ui").Warn("decoding thumbnail", "id", d.ID, "err", err)
		return
	}
	g.preview.Image = img
	g.preview.Refresh()
}

func (g *galleryBrowser) edit() {
	d, ok := g.current()
	if !ok {
		return
	}
	g.session.Load(d)
	g.dlg.Hide()
}

func (g *galleryBrowser) like() {
	d, ok := g.current()
	if !ok {
		return
	}
	if err := g.store.ToggleLike(context.Background(), d.ID); err != nil {
		dialog.ShowError(err, g.win)
		return
	}
	g.refreshList()
}

func (g *galleryBrowser) remove() {
	d, ok := g.current()
	if !ok {
		return
	}
	dialog.ShowConfirm("Delete doodle", fmt.Sprintf("Delete %q?", d.Title), func(ok bool) {
		if !ok {
			return
		}
		if err := g.store.Delete(context.Background(), d.ID); err != nil {
			dialog.ShowError(err, g.win)
			return
		}
		g.selected = -1
		g.list.UnselectAll()
		g.caption.SetText("")
		g.preview.Image = nil
		g.preview.Refresh()
		g.refreshList()
	}, g.win)
}

func (g *galleryBrowser) refreshList() {
	sel := g.selected
	if err := g.reload(); err != nil {
		dialog.ShowError(err, g.win)
		return
	}
	g.list.Refresh()
	if sel >= 0 && sel < len(g.doodles) {
		g.show(sel)
	}
}

func (g *galleryBrowser) exportPDF() {
	d, ok := g.current()
	if !ok {
		return
	}
	png, err := g.store.Image(d.ID, false)
	if err != nil {
		dialog.ShowError(err, g.win)
		return
	}
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.win)
			return
		}
		if w == nil {
			return
		}
		err = export.PDF(w, d, png)
		err = errors.Join(err, w.Close())
		if err != nil {
			dialog.ShowError(fmt.Errorf("exporting %q: %w", d.Title, err), g.win)
			return
		}
		logging.For("ui").Info("doodle exported", "id", d.ID, "uri", w.URI().String())
	}, g.win)
	save.SetFileName(d.Title + ".pdf")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
}
