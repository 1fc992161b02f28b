package engine

import (
	"fmt"

	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// Overlap is a pair of cabinets whose rotated outlines intersect, or a single
// cabinet that extends past the room walls (B is empty then).
type Overlap struct {
	A, B      model.Cabinet
	OutOfRoom bool
}

// CheckOverlaps finds every violation of the non-overlap and containment
// invariants. These can appear after a verbatim layout import, a rotation
// without repositioning, a resize or a duplicate.
func (s *Session) CheckOverlaps() []Overlap {
	ppu := s.policy.PixelsPerUnit
	roomW, roomH := s.policy.Room.PixelSize(ppu)

	outlines := make([]model.Outline, len(s.cabinets))
	for i, c := range s.cabinets {
		outlines[i] = geometry.CabinetOutline(c, c.X, c.Y, ppu)
	}

	var found []Overlap
	for i, a := range s.cabinets {
		min, max := geometry.Bounds(outlines[i])
		// small tolerance for rotated outlines computed in floating point
		const eps = 1e-6
		if min.X < -eps || min.Y < -eps || max.X > roomW+eps || max.Y > roomH+eps {
			found = append(found, Overlap{A: a, OutOfRoom: true})
		}
		for j := i + 1; j < len(s.cabinets); j++ {
			if geometry.Overlaps(outlines[i], outlines[j]) {
				found = append(found, Overlap{A: a, B: s.cabinets[j]})
			}
		}
	}
	return found
}

// FormatOverlapWarnings produces human-readable warning messages from overlap data.
func FormatOverlapWarnings(overlaps []Overlap) []string {
	var warnings []string
	for _, o := range overlaps {
		var msg string
		if o.OutOfRoom {
			msg = fmt.Sprintf("Cabinet %q at (%.0f, %.0f) extends past the room walls", o.A.Name, o.A.X, o.A.Y)
		} else {
			msg = fmt.Sprintf("Cabinet %q at (%.0f, %.0f) overlaps cabinet %q at (%.0f, %.0f)",
				o.A.Name, o.A.X, o.A.Y, o.B.Name, o.B.X, o.B.Y)
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
