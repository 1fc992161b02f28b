// Package export renders an arcade layout to image, PDF, DXF and
// spreadsheet files, and prints QR-coded cabinet labels.
package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// fallbackColor is used for cabinets whose color string cannot be parsed.
var fallbackColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// ParseHexColor parses "#rgb" or "#rrggbb". The second result is false
// when s is not a hex color, in which case magenta is returned.
func ParseHexColor(s string) (color.RGBA, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallbackColor, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallbackColor, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// textColorFor picks black or white, whichever reads better on bg.
func textColorFor(bg color.RGBA) color.RGBA {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 140 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

// placedCabinet is a cabinet with its outline converted to meters.
type placedCabinet struct {
	Record  model.CabinetRecord
	Outline model.Outline
	Center  model.Point2D
}

// placeCabinets converts every cabinet of the layout into a meter-space outline.
func placeCabinets(l model.Layout, ppu float64) []placedCabinet {
	if ppu <= 0 {
		ppu = model.DefaultPixelsPerUnit
	}
	placed := make([]placedCabinet, 0, len(l.Cabinets))
	for _, rec := range l.Cabinets {
		// Build at the origin in meters, then move to the stored position.
		poly := geometry.OrientedRect(rec.Width, rec.Height, rec.Rotation, 0, 0).Translate(rec.X/ppu, rec.Y/ppu)
		placed = append(placed, placedCabinet{
			Record:  rec,
			Outline: poly,
			Center: model.Point2D{
				X: rec.X/ppu + rec.Width/2,
				Y: rec.Y/ppu + rec.Height/2,
			},
		})
	}
	return placed
}

// formatMeters renders a length in meters the way every export labels it.
func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " m"
}

func checkRoom(l model.Layout) error {
	if !l.Room.Valid() {
		return fmt.Errorf("invalid room %.2f x %.2f (grid %.2f)", l.Room.Width, l.Room.Height, l.Room.GridSize)
	}
	return nil
}
