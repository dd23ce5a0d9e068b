// Package export turns saved doodles into printable documents.
package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"cloudoodle/internal/gallery"
)

const (
	margin   = 10.0 // mm
	titlePt  = 20.0
	captionH = 8.0
)

// PDF writes an A4 page with the doodle's title, its description and the
// rendered image scaled to fit. png must be the doodle's rendered PNG.
func PDF(w io.Writer, d gallery.Doodle, png []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return fmt.Errorf("reading doodle image: %w", err)
	}
	orientation := "P"
	if cfg.Width > cfg.Height {
		orientation = "L"
	}

	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetMargins(margin, margin, margin)
	p.SetTitle(d.Title, true)
	p.SetCreator("cloudoodle", true)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.SetFont("Helvetica", "B", titlePt)
	p.CellFormat(0, 12, tr(d.Title), "", 1, "C", false, 0, "")
	if d.Description != "" {
		p.SetFont("Helvetica", "", 11)
		p.SetTextColor(96, 96, 96)
		p.CellFormat(0, captionH, tr(d.Description), "", 1, "C", false, 0, "")
	}

	pageW, pageH := p.GetPageSize()
	top := p.GetY() + 4
	x, y, iw, ih := fit(float64(cfg.Width), float64(cfg.Height),
		margin, top, pageW-2*margin, pageH-top-margin)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(d.ID, opt, bytes.NewReader(png))
	p.ImageOptions(d.ID, x, y, iw, ih, false, opt, 0, "")

	if err := p.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	return p.Output(w)
}

// WriteFile is PDF to a file at path.
func WriteFile(path string, d gallery.Doodle, png []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, d, png); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// fit scales a w x h image into the box, centered horizontally.
func fit(w, h, boxX, boxY, boxW, boxH float64) (x, y, fw, fh float64) {
	scale := min(boxW/w, boxH/h)
	fw, fh = w*scale, h*scale
	return boxX + (boxW-fw)/2, boxY, fw, fh
}
