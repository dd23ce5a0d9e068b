// Package render composes a scene into pixels: background color, photo,
// strokes and stickers, in that order. Rasterisation runs on gg's CPU
// renderer so the result can be produced without a window or GPU.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"slices"

	"github.com/gogpu/gg"

	"cloudoodle/internal/logging"
	"cloudoodle/internal/state"
)

// SelectedOpacity is the alpha a selected sticker is drawn with.
const SelectedOpacity = 0.7

var ErrCanvasSize = errors.New("canvas size must be positive")

// Frame is everything a render depends on.
type Frame struct {
	Width, Height int
	Background    string // #RRGGBB
	Photo         string // image reference, optional
	Strokes       []state.Stroke
	Live          *state.Stroke // gesture in progress, drawn above Strokes
	Stickers      []state.Sticker
}

// Renderer turns Frames into images. It is safe to reuse across renders; the
// only state it keeps is the converted images of the last frame drawn.
type Renderer struct {
	src  ImageSource
	bufs map[string]*gg.ImageBuf
	log  *slog.Logger
}

func New(src ImageSource) *Renderer {
	return &Renderer{
		src:  src,
		bufs: make(map[string]*gg.ImageBuf),
		log:  logging.For("render"),
	}
}

// Render draws f. A missing sticker image is logged and skipped; a photo
// that cannot be loaded fails the render.
func (r *Renderer) Render(f Frame) (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasSize, f.Width, f.Height)
	}

	dc := gg.NewContext(f.Width, f.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(f.Background))

	if f.Photo != "" {
		photo, err := r.buf(f.Photo)
		if err != nil {
			return nil, fmt.Errorf("background photo: %w", err)
		}
		dc.DrawImageEx(photo, gg.DrawImageOptions{
			DstWidth:  float64(f.Width),
			DstHeight: float64(f.Height),
			Opacity:   1,
		})
	}

	canvas := state.Rect{Width: float64(f.Width), Height: float64(f.Height)}
	for _, st := range f.Strokes {
		if !st.Bounds().Overlaps(canvas) {
			continue
		}
		if err := drawStroke(dc, st); err != nil {
			return nil, err
		}
	}
	if f.Live != nil && len(f.Live.Points) > 0 {
		if err := drawStroke(dc, *f.Live); err != nil {
			return nil, err
		}
	}

	for _, st := range f.Stickers {
		img, err := r.buf(st.URI)
		if err != nil {
			r.log.Warn("skipping sticker", "id", st.ID, "err", err)
			continue
		}
		opacity := 1.0
		if st.Selected {
			opacity = SelectedOpacity
		}
		dc.DrawImageEx(img, gg.DrawImageOptions{
			X:         st.X,
			Y:         st.Y,
			DstWidth:  st.Width,
			DstHeight: st.Height,
			Opacity:   opacity,
		})
	}

	r.prune(f)
	return toRGBA(dc.Image()), nil
}

// prune drops converted images the frame no longer uses.
func (r *Renderer) prune(f Frame) {
	for ref := range r.bufs {
		if ref == f.Photo {
			continue
		}
		if !slices.ContainsFunc(f.Stickers, func(st state.Sticker) bool { return st.URI == ref }) {
			delete(r.bufs, ref)
		}
	}
}

// Forget drops ref from the renderer and from its source, when the source
// caches decoded images.
func (r *Renderer) Forget(ref string) {
	delete(r.bufs, ref)
	if f, ok := r.src.(interface{ Forget(string) }); ok {
		f.Forget(ref)
	}
}

func drawStroke(dc *gg.Context, st state.Stroke) error {
	dc.SetHexColor(st.Color)
	if len(st.Points) == 1 {
		p := st.Points[0]
		dc.DrawCircle(p.X, p.Y, st.Width/2)
		return dc.Fill()
	}

	dc.SetLineWidth(st.Width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(st.Points[0].X, st.Points[0].Y)
	for _, p := range st.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroking path: %w", err)
	}
	return nil
}

func (r *Renderer) buf(ref string) (*gg.ImageBuf, error) {
	if b, ok := r.bufs[ref]; ok {
		return b, nil
	}
	img, err := r.src.Image(ref)
	if err != nil {
		return nil, err
	}
	b := gg.ImageBufFromImage(img)
	r.bufs[ref] = b
	return b, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
