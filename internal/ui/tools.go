package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"cloudoodle/internal/config"
	"cloudoodle/internal/editor"
	"cloudoodle/internal/state"
)

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	Color    color.Color
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	c, err := state.ParseHexColor(hex)
	if err != nil {
		c = color.NRGBA{A: 255}
	}
	s := &colorSwatch{Hex: hex, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// toolbar holds the editing controls for one session.
type toolbar struct {
	session *editor.Session
	cfg     config.Config
	win     fyne.Window

	eraser  *widget.Check
	widths  *widget.RadioGroup
	sticker *widget.Select
	undo    *widget.Button
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func newToolbar(s *editor.Session, cfg config.Config, win fyne.Window, openGallery func()) (*toolbar, fyne.CanvasObject) {
	tb := &toolbar{session: s, cfg: cfg, win: win}

	swatches := container.NewHBox()
	for _, hex := range cfg.Palette {
		swatches.Add(newColorSwatch(hex, tb.pickColor))
	}

	tb.eraser = widget.NewCheck("Eraser", func(on bool) { s.SetEraser(on) })

	labels := make([]string, len(cfg.Widths))
	for i, w := range cfg.Widths {
		labels[i] = formatWidth(w)
	}
	tb.widths = widget.NewRadioGroup(labels, func(v string) {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return
		}
		if err := s.SetWidth(w); err != nil {
			dialog.ShowError(err, win)
		}
	})
	tb.widths.Horizontal = true
	tb.widths.Required = true
	tb.widths.SetSelected(formatWidth(cfg.DefaultWidth))

	tb.sticker = widget.NewSelect(cfg.Stickers, func(uri string) {
		if uri == "" {
			return
		}
		if _, err := s.PlaceStickerCentered(uri, cfg.StickerSize); err != nil {
			dialog.ShowError(err, win)
		}
		tb.sticker.ClearSelected()
	})
	tb.sticker.PlaceHolder = "Add sticker"

	tb.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { s.Undo() })

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentRemoveIcon(), func() { s.DeleteSelected() }),
		widget.NewToolbarAction(theme.DeleteIcon(), tb.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { showSaveDialog(s, win) }),
		widget.NewToolbarAction(theme.FolderOpenIcon(), openGallery),
	)

	tb.refresh()
	return tb, container.NewHBox(
		swatches,
		widget.NewSeparator(),
		tb.eraser,
		tb.widths,
		widget.NewSeparator(),
		tb.sticker,
		tb.undo,
		actions,
	)
}

func (tb *toolbar) pickColor(hex string) {
	if err := tb.session.SetColor(hex); err != nil {
		dialog.ShowError(err, tb.win)
		return
	}
	tb.eraser.SetChecked(false)
}

func (tb *toolbar) confirmClear() {
	dialog.ShowConfirm("Clear canvas", "Remove every stroke and sticker? Undo brings them back.",
		func(ok bool) {
			if ok {
				tb.session.Clear()
			}
		}, tb.win)
}

// refresh syncs control state with the session.
func (tb *toolbar) refresh() {
	if tb.session.CanUndo() {
		tb.undo.Enable()
	} else {
		tb.undo.Disable()
	}
	if tb.eraser.Checked != tb.session.Tools().Eraser {
		tb.eraser.SetChecked(tb.session.Tools().Eraser)
	}
}
