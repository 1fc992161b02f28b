package model

import (
	"math"

	"github.com/google/uuid"
)

// DefaultPixelsPerUnit is the number of room pixels per meter.
const DefaultPixelsPerUnit = 100.0

// Default values used when a cabinet record leaves a field out.
const (
	DefaultCabinetName  = "Cabinet"
	DefaultCabinetColor = "#ff00ff"
	DefaultLayoutTitle  = "Arcade Layout"
	DefaultRoomTitle    = "Untitled Room"
)

// Point2D represents a 2D coordinate in room pixels.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Room is the bounded floor area cabinets are placed in. All values are meters.
type Room struct {
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	GridSize float64 `json:"gridSize" yaml:"grid_size"`
}

// DefaultRoom returns the 10x10 m room with a 1 m grid used on startup and reset.
func DefaultRoom() Room {
	return Room{Width: 10, Height: 10, GridSize: 1}
}

// Valid reports whether every dimension is strictly positive.
func (r Room) Valid() bool {
	return r.Width > 0 && r.Height > 0 && r.GridSize > 0
}

// PixelSize returns the room extent in pixels.
func (r Room) PixelSize(ppu float64) (w, h float64) {
	return r.Width * ppu, r.Height * ppu
}

// GridPixels returns the grid pitch in pixels.
func (r Room) GridPixels(ppu float64) float64 {
	return r.GridSize * ppu
}

// Cabinet is a rectangular item placed in the room.
// X and Y are the top-left corner of the unrotated box, in room pixels.
type Cabinet struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Width    float64 `json:"width"`  // meters
	Height   float64 `json:"height"` // meters
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation"` // degrees
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Locked   bool    `json:"locked"`
}

// NewCabinet creates an unlocked, unrotated cabinet at the origin with a
// fresh short ID.
func NewCabinet(name string, w, h float64, color string) Cabinet {
	return Cabinet{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  w,
		Height: h,
		Color:  color,
	}
}

// PixelSize returns the unrotated cabinet extent in pixels.
func (c Cabinet) PixelSize(ppu float64) (w, h float64) {
	return c.Width * ppu, c.Height * ppu
}

// Template returns the reusable part of the cabinet, without position or identity.
func (c Cabinet) Template() CabinetTemplate {
	return CabinetTemplate{
		Name:     c.Name,
		Width:    c.Width,
		Height:   c.Height,
		Color:    c.Color,
		Rotation: c.Rotation,
	}
}

// Record returns the persisted snapshot of the cabinet.
func (c Cabinet) Record() CabinetRecord {
	return CabinetRecord{
		Name:     c.Name,
		Width:    c.Width,
		Height:   c.Height,
		Color:    c.Color,
		X:        c.X,
		Y:        c.Y,
		Rotation: c.Rotation,
		Locked:   c.Locked,
	}
}

// CabinetTemplate describes a cabinet that can be saved, exported and placed again.
type CabinetTemplate struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation,omitempty"`
}

// NewCabinet creates a fresh cabinet from the template with a new ID.
func (t CabinetTemplate) NewCabinet() Cabinet {
	c := NewCabinet(t.Name, t.Width, t.Height, t.Color)
	c.Rotation = t.Rotation
	return c
}

// CabinetRecord is a cabinet as stored in a layout file.
type CabinetRecord struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Locked   bool    `json:"locked"`
}

// Cabinet rebuilds a placed cabinet from the record with a new ID.
func (r CabinetRecord) Cabinet() Cabinet {
	c := NewCabinet(r.Name, r.Width, r.Height, r.Color)
	c.X, c.Y = r.X, r.Y
	c.Rotation = r.Rotation
	c.Locked = r.Locked
	return c
}

// Layout is a complete room description: title, room and ordered cabinets.
type Layout struct {
	Title    string          `json:"title"`
	Room     Room            `json:"room"`
	Cabinets []CabinetRecord `json:"cabinets"`
}
