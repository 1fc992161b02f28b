// Package geometry holds the pure math used for placement: oriented rectangle
// outlines, axis projection and the separating axis overlap test.
package geometry

import (
	"math"

	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// sincos returns exact values for quarter turns so grid-aligned rotated
// cabinets keep exact edges and can still touch without overlapping.
func sincos(deg float64) (sin, cos float64) {
	switch NormalizeDegrees(deg) {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}

// OrientedRect returns the four corners of a w x h rectangle whose unrotated
// top-left corner is at (x, y), rotated by deg degrees about its center.
// Corners are ordered top-left, top-right, bottom-right, bottom-left before rotation.
func OrientedRect(w, h, deg, x, y float64) model.Outline {
	cx, cy := x+w/2, y+h/2
	sin, cos := sincos(deg)
	hw, hh := w/2, h/2
	local := [4]model.Point2D{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	out := make(model.Outline, len(local))
	for i, p := range local {
		out[i] = model.Point2D{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// CabinetOutline returns the rotated outline of c placed at (x, y).
func CabinetOutline(c model.Cabinet, x, y, ppu float64) model.Outline {
	w, h := c.PixelSize(ppu)
	return OrientedRect(w, h, c.Rotation, x, y)
}

// ProjectOntoAxis returns the extent of poly along a unit axis.
func ProjectOntoAxis(axis model.Point2D, poly model.Outline) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		v := p.X*axis.X + p.Y*axis.Y
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// edgeNormals returns the unit normal of every edge of poly.
// A zero-length edge yields a zero axis, which never reports overlap.
func edgeNormals(poly model.Outline) []model.Point2D {
	axes := make([]model.Point2D, 0, len(poly))
	for i, p1 := range poly {
		p2 := poly[(i+1)%len(poly)]
		nx, ny := -(p2.Y - p1.Y), p2.X-p1.X
		l := math.Hypot(nx, ny)
		if l == 0 {
			l = 1
		}
		axes = append(axes, model.Point2D{X: nx / l, Y: ny / l})
	}
	return axes
}

// Overlaps reports whether two convex polygons intersect with positive area.
// Polygons that only share an edge or a corner do not overlap.
func Overlaps(a, b model.Outline) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	axes := append(edgeNormals(a), edgeNormals(b)...)
	for _, axis := range axes {
		minA, maxA := ProjectOntoAxis(axis, a)
		minB, maxB := ProjectOntoAxis(axis, b)
		if maxA <= minB || maxB <= minA {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of poly.
func Bounds(poly model.Outline) (min, max model.Point2D) {
	return poly.BoundingBox()
}

// Contains reports whether p lies inside or on the boundary of the convex polygon.
func Contains(poly model.Outline, p model.Point2D) bool {
	if len(poly) < 3 {
		return false
	}
	sign := 0.0
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	// all edges collinear with p: degenerate polygon
	return sign != 0
}
