package model

import "math"

// Zoom limits for the room view.
const (
	DefaultZoom = 0.67
	MinZoom     = 0.3
	MaxZoom     = 3.0
	ZoomStep    = 0.1
)

// Viewport maps pointer coordinates on the displayed room to room pixels.
type Viewport struct {
	PixelsPerUnit float64 `json:"pixels_per_unit"`
	Zoom          float64 `json:"zoom"`
}

// NewViewport returns a viewport at the default zoom. A non-positive ppu
// falls back to DefaultPixelsPerUnit.
func NewViewport(ppu float64) Viewport {
	if ppu <= 0 {
		ppu = DefaultPixelsPerUnit
	}
	return Viewport{PixelsPerUnit: ppu, Zoom: DefaultZoom}
}

// ZoomIn increases the zoom by one step, capped at MaxZoom.
func (v *Viewport) ZoomIn() {
	v.Zoom = roundZoom(math.Min(v.Zoom+ZoomStep, MaxZoom))
}

// ZoomOut decreases the zoom by one step, floored at MinZoom.
func (v *Viewport) ZoomOut() {
	v.Zoom = roundZoom(math.Max(v.Zoom-ZoomStep, MinZoom))
}

// ToRoom converts a pointer position on the scaled view into room pixels.
func (v Viewport) ToRoom(px, py float64) (float64, float64) {
	z := v.Zoom
	if z <= 0 {
		z = 1
	}
	return px / z, py / z
}

// FromRoom converts room pixels into positions on the scaled view.
func (v Viewport) FromRoom(x, y float64) (float64, float64) {
	return x * v.Zoom, y * v.Zoom
}

// roundZoom trims float drift from repeated steps.
func roundZoom(z float64) float64 {
	return math.Round(z*100) / 100
}
