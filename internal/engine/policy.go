package engine

import (
	"math"

	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// Policy holds the placement rules shared by every interactive and automated
// placement: grid and neighbor snapping, clamping and overlap queries.
type Policy struct {
	Room          model.Room
	PixelsPerUnit float64
	SnapThreshold float64 // pixels
}

// GridPixels returns the current grid pitch in pixels.
func (p Policy) GridPixels() float64 {
	return p.Room.GridPixels(p.PixelsPerUnit)
}

// SnapToGrid rounds a top-left corner to the nearest grid intersection.
// A non-positive grid leaves the coordinates unchanged.
func SnapToGrid(x, y, gridPx float64) (float64, float64) {
	if gridPx <= 0 {
		return x, y
	}
	return math.Round(x/gridPx) * gridPx, math.Round(y/gridPx) * gridPx
}

// SnapToNeighbors aligns the unrotated box of moving at (x, y) with the
// unrotated boxes of every other cabinet when their facing edges are closer
// than threshold. Later cabinets override earlier ones. The flags report
// which axes were snapped.
func SnapToNeighbors(x, y float64, moving model.Cabinet, all []model.Cabinet, ppu, threshold float64) (nx, ny float64, snappedX, snappedY bool) {
	nx, ny = x, y
	w, h := moving.PixelSize(ppu)
	for _, other := range all {
		if other.ID == moving.ID {
			continue
		}
		ow, oh := other.PixelSize(ppu)
		left, right, top, bottom := other.X, other.X+ow, other.Y, other.Y+oh

		if math.Abs(nx-right) < threshold {
			nx, snappedX = right, true
		}
		if math.Abs(nx+w-left) < threshold {
			nx, snappedX = left-w, true
		}
		if math.Abs(ny-bottom) < threshold {
			ny, snappedY = bottom, true
		}
		if math.Abs(ny+h-top) < threshold {
			ny, snappedY = top-h, true
		}
	}
	return nx, ny, snappedX, snappedY
}

// Snap aligns (x, y) with neighbor edges. Grid snapping applies to both
// axes, and only when no edge aligned on either axis.
func (p Policy) Snap(c model.Cabinet, x, y float64, all []model.Cabinet) (float64, float64) {
	nx, ny, sx, sy := SnapToNeighbors(x, y, c, all, p.PixelsPerUnit, p.SnapThreshold)
	if sx || sy {
		return nx, ny
	}
	return SnapToGrid(nx, ny, p.GridPixels())
}

// Clamp shifts (x, y) so the rotated outline of c lies inside the room.
// When the outline is larger than the room on an axis, its minimum edge is
// pinned to 0.
func (p Policy) Clamp(c model.Cabinet, x, y float64) (float64, float64) {
	min, max := geometry.Bounds(geometry.CabinetOutline(c, x, y, p.PixelsPerUnit))
	roomW, roomH := p.Room.PixelSize(p.PixelsPerUnit)
	return x + clampShift(min.X, max.X, roomW), y + clampShift(min.Y, max.Y, roomH)
}

func clampShift(lo, hi, limit float64) float64 {
	d := 0.0
	if hi > limit {
		d = limit - hi
	}
	if lo+d < 0 {
		d = -lo
	}
	return d
}

// CollidesAt reports whether c placed at (x, y) overlaps any other cabinet
// at its stored position.
func (p Policy) CollidesAt(c model.Cabinet, x, y float64, all []model.Cabinet) bool {
	poly := geometry.CabinetOutline(c, x, y, p.PixelsPerUnit)
	for _, other := range all {
		if other.ID == c.ID {
			continue
		}
		if geometry.Overlaps(poly, geometry.CabinetOutline(other, other.X, other.Y, p.PixelsPerUnit)) {
			return true
		}
	}
	return false
}

// FirstFree scans the room row by row on the grid and returns the first
// clamped position where c does not collide. The bool is false when no free
// slot exists; the returned position is then clamp(0, 0).
func (p Policy) FirstFree(c model.Cabinet, all []model.Cabinet) (float64, float64, bool) {
	roomW, roomH := p.Room.PixelSize(p.PixelsPerUnit)
	w, h := c.PixelSize(p.PixelsPerUnit)
	step := p.GridPixels()
	if step > 0 {
		for y := 0.0; y <= roomH-h+1; y += step {
			for x := 0.0; x <= roomW-w+1; x += step {
				cx, cy := p.Clamp(c, x, y)
				if !p.CollidesAt(c, cx, cy, all) {
					return cx, cy, true
				}
			}
		}
	}
	x, y := p.Clamp(c, 0, 0)
	return x, y, false
}
