package ui

import (
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"cloudoodle/internal/editor"
	"cloudoodle/internal/logging"
)

// viewport maps widget coordinates onto the doodle canvas, which is drawn
// scaled to fit and centered.
type viewport struct {
	scale, offX, offY float32
}

func newViewport(widget fyne.Size, w, h int) viewport {
	if w <= 0 || h <= 0 || widget.Width <= 0 || widget.Height <= 0 {
		return viewport{scale: 1}
	}
	scale := min(widget.Width/float32(w), widget.Height/float32(h))
	return viewport{
		scale: scale,
		offX:  (widget.Width - float32(w)*scale) / 2,
		offY:  (widget.Height - float32(h)*scale) / 2,
	}
}

func (v viewport) toCanvas(p fyne.Position) (float64, float64) {
	return float64((p.X - v.offX) / v.scale), float64((p.Y - v.offY) / v.scale)
}

// stickerDrag tracks a sticker being moved with the pointer.
type stickerDrag struct {
	id             string
	originX        float64
	originY        float64
	startX, startY float64
	lastX, lastY   float64
}

// DoodleCanvas shows the session's rendered canvas and turns pointer input
// into strokes and sticker commands.
type DoodleCanvas struct {
	widget.BaseWidget
	session *editor.Session
	log     *slog.Logger

	drag *stickerDrag
}

var _ fyne.Widget = (*DoodleCanvas)(nil)
var _ fyne.Draggable = (*DoodleCanvas)(nil)
var _ desktop.Mouseable = (*DoodleCanvas)(nil)

func NewDoodleCanvas(s *editor.Session) *DoodleCanvas {
	c := &DoodleCanvas{session: s, log: logging.For("ui")}
	c.ExtendBaseWidget(c)
	return c
}

func (c *DoodleCanvas) viewport() viewport {
	w, h := c.session.Size()
	return newViewport(c.Size(), w, h)
}

func (c *DoodleCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.press(e.Position)
}

func (c *DoodleCanvas) press(pos fyne.Position) {
	x, y := c.viewport().toCanvas(pos)
	if c.session.TapAt(x, y) {
		st, _ := c.session.SelectedSticker()
		c.drag = &stickerDrag{id: st.ID, originX: st.X, originY: st.Y, startX: x, startY: y, lastX: x, lastY: y}
		return
	}
	c.session.PointerDown(x, y)
}

func (c *DoodleCanvas) Dragged(e *fyne.DragEvent) {
	if c.drag == nil && !c.session.Drawing() {
		// Touch input has no MouseDown; the gesture starts with the first drag.
		c.press(e.Position.Subtract(e.Dragged))
	}
	x, y := c.viewport().toCanvas(e.Position)
	if c.drag != nil {
		c.drag.lastX, c.drag.lastY = x, y
		return
	}
	c.session.PointerMove(x, y)
}

func (c *DoodleCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.release()
}

func (c *DoodleCanvas) DragEnd() {
	c.release()
}

func (c *DoodleCanvas) release() {
	if d := c.drag; d != nil {
		c.drag = nil
		dx, dy := d.lastX-d.startX, d.lastY-d.startY
		if dx == 0 && dy == 0 {
			return
		}
		if err := c.session.MoveSticker(d.id, d.originX+dx, d.originY+dy); err != nil {
			c.log.Warn("moving sticker", "id", d.id, "err", err)
		}
		return
	}
	c.session.PointerUp()
}

func (c *DoodleCanvas) MouseIn(*desktop.MouseEvent)    {}
func (c *DoodleCanvas) MouseOut()                      {}
func (c *DoodleCanvas) MouseMoved(*desktop.MouseEvent) {}

func (c *DoodleCanvas) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	r := &doodleCanvasRenderer{canvas: c, image: img}
	r.Refresh()
	return r
}

type doodleCanvasRenderer struct {
	canvas *DoodleCanvas
	image  *canvas.Image
}

func (r *doodleCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image}
}

func (r *doodleCanvasRenderer) Refresh() {
	img, err := r.canvas.session.Render()
	if err != nil {
		r.canvas.log.Error("rendering canvas", "err", err)
		return
	}
	r.image.Image = img
	r.image.Refresh()
}

func (r *doodleCanvasRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
}

func (r *doodleCanvasRenderer) MinSize() fyne.Size {
	w, h := r.canvas.session.Size()
	return fyne.NewSize(float32(w)/2, float32(h)/2)
}

func (r *doodleCanvasRenderer) Destroy() {}
