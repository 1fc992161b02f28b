package widgets

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ArcadeLayout/internal/engine"
	"github.com/piwi3910/ArcadeLayout/internal/export"
	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

var (
	colorSelected = color.NRGBA{R: 255, G: 215, B: 0, A: 255}   // gold
	colorLocked   = color.NRGBA{R: 160, G: 160, B: 160, A: 255} // grey
	colorBlank    = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
)

// RoomCanvas draws the room, its grid and cabinets at the session zoom and
// forwards pointer input in view coordinates.
type RoomCanvas struct {
	widget.BaseWidget
	session *engine.Session

	OnPointerDown func(x, y float64)
	OnPointerMove func(x, y float64)
	OnPointerUp   func()
	OnZoom        func(in bool)

	pressed bool
}

var (
	_ desktop.Mouseable = (*RoomCanvas)(nil)
	_ fyne.Draggable    = (*RoomCanvas)(nil)
	_ fyne.Scrollable   = (*RoomCanvas)(nil)
)

// NewRoomCanvas creates a canvas showing session. Pointer callbacks are
// left nil until the caller sets them.
func NewRoomCanvas(session *engine.Session) *RoomCanvas {
	rc := &RoomCanvas{session: session}
	rc.ExtendBaseWidget(rc)
	return rc
}

// SetSession swaps the displayed session.
func (rc *RoomCanvas) SetSession(s *engine.Session) {
	rc.session = s
	rc.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (rc *RoomCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &roomCanvasRenderer{rc: rc}
	r.raster = canvas.NewRaster(r.draw)
	r.rebuild()
	return r
}

// roomSize is the displayed room size in view units.
func (rc *RoomCanvas) roomSize() fyne.Size {
	vp := rc.session.Viewport
	w, h := rc.session.Room().PixelSize(vp.PixelsPerUnit)
	return fyne.NewSize(float32(w*vp.Zoom), float32(h*vp.Zoom))
}

func (rc *RoomCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	rc.pressed = true
	if rc.OnPointerDown != nil {
		rc.OnPointerDown(float64(ev.Position.X), float64(ev.Position.Y))
	}
}

func (rc *RoomCanvas) MouseUp(ev *desktop.MouseEvent) {
	rc.release()
}

func (rc *RoomCanvas) Dragged(ev *fyne.DragEvent) {
	if !rc.pressed || rc.OnPointerMove == nil {
		return
	}
	rc.OnPointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (rc *RoomCanvas) DragEnd() {
	rc.release()
}

func (rc *RoomCanvas) release() {
	if !rc.pressed {
		return
	}
	rc.pressed = false
	if rc.OnPointerUp != nil {
		rc.OnPointerUp()
	}
}

// Scrolled zooms with the mouse wheel.
func (rc *RoomCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if rc.OnZoom == nil || ev.Scrolled.DY == 0 {
		return
	}
	rc.OnZoom(ev.Scrolled.DY > 0)
}

type roomCanvasRenderer struct {
	rc      *RoomCanvas
	raster  *canvas.Raster
	objects []fyne.CanvasObject
}

// draw renders the floor at the raster's real pixel size.
func (r *roomCanvasRenderer) draw(w, h int) image.Image {
	s := r.rc.session
	if s == nil || w <= 0 || h <= 0 {
		return image.NewUniform(colorBlank)
	}
	roomW, _ := s.Room().PixelSize(s.Viewport.PixelsPerUnit)
	img, err := export.RenderImage(s.Snapshot(), s.Viewport.PixelsPerUnit, float64(w)/roomW)
	if err != nil {
		return image.NewUniform(colorBlank)
	}
	return img
}

func (r *roomCanvasRenderer) rebuild() {
	r.objects = []fyne.CanvasObject{r.raster}
	s := r.rc.session
	if s == nil {
		return
	}
	r.raster.Resize(r.rc.roomSize())

	// Outline locked cabinets, then the selection on top.
	zoom, ppu := s.Viewport.Zoom, s.Viewport.PixelsPerUnit
	for _, c := range s.Cabinets() {
		if c.Locked {
			r.outline(c, zoom, ppu, colorLocked, 1)
		}
	}
	if c, ok := s.Selected(); ok {
		r.outline(c, zoom, ppu, colorSelected, 2)
	}
}

func (r *roomCanvasRenderer) outline(c model.Cabinet, zoom, ppu float64, col color.Color, width float32) {
	poly := geometry.CabinetOutline(c, c.X, c.Y, ppu)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = fyne.NewPos(float32(a.X*zoom), float32(a.Y*zoom))
		line.Position2 = fyne.NewPos(float32(b.X*zoom), float32(b.Y*zoom))
		r.objects = append(r.objects, line)
	}
}

func (r *roomCanvasRenderer) Layout(size fyne.Size) {
	r.raster.Resize(r.rc.roomSize())
}

func (r *roomCanvasRenderer) MinSize() fyne.Size {
	if r.rc.session == nil {
		return fyne.NewSize(0, 0)
	}
	return r.rc.roomSize()
}

func (r *roomCanvasRenderer) Refresh() {
	r.rebuild()
	r.raster.Refresh()
}

func (r *roomCanvasRenderer) Destroy()                     {}
func (r *roomCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
