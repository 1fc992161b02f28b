package engine

import (
	"fmt"

	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// Outcome describes how a candidate position was resolved.
type Outcome int

const (
	Accepted Outcome = iota // candidate committed as proposed (after snap and clamp)
	SlidX                   // only the x component was kept
	SlidY                   // only the y component was kept
	Rejected                // position unchanged
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "Accepted"
	case SlidX:
		return "SlidX"
	case SlidY:
		return "SlidY"
	default:
		return "Rejected"
	}
}

// Move is the resolved position of a cabinet after a placement step.
type Move struct {
	X, Y    float64
	Outcome Outcome
}

// dragState tracks one pointer gesture from press to release.
type dragState struct {
	id         string
	grabX      float64
	grabY      float64
	lastValidX float64
	lastValidY float64
}

// Dragging reports whether a drag gesture is in progress.
func (s *Session) Dragging() bool { return s.drag != nil }

// BeginDrag selects the cabinet under the pointer and starts a drag unless it
// is locked. Pointer coordinates are in view space and are scaled by the zoom.
// Returns true when a drag started.
func (s *Session) BeginDrag(id string, viewX, viewY float64) (bool, error) {
	c, ok := s.Cabinet(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	s.selected = id
	s.drag = nil
	if c.Locked {
		return false, nil
	}
	px, py := s.Viewport.ToRoom(viewX, viewY)
	s.drag = &dragState{
		id:         id,
		grabX:      px - c.X,
		grabY:      py - c.Y,
		lastValidX: c.X,
		lastValidY: c.Y,
	}
	return true, nil
}

// DragTo resolves a pointer move during a drag: snap, clamp, then accept the
// position, slide along one axis or reject. The cabinet is moved to the
// resolved position. Returns false when no drag is in progress.
func (s *Session) DragTo(viewX, viewY float64) (Move, bool) {
	if s.drag == nil {
		return Move{}, false
	}
	i := s.index(s.drag.id)
	if i < 0 {
		s.drag = nil
		return Move{}, false
	}
	c := s.cabinets[i]
	px, py := s.Viewport.ToRoom(viewX, viewY)
	x, y := px-s.drag.grabX, py-s.drag.grabY

	move := s.resolve(c, x, y, s.drag.lastValidX, s.drag.lastValidY)
	if move.Outcome == Rejected {
		applog.WithComponent("engine").Debug("drag rejected",
			"cabinet", c.ID, "x", x, "y", y)
	}
	s.drag.lastValidX, s.drag.lastValidY = move.X, move.Y
	s.cabinets[i].X, s.cabinets[i].Y = move.X, move.Y
	return move, true
}

// resolve applies the drag policy to a raw candidate position.
func (s *Session) resolve(c model.Cabinet, x, y, lastX, lastY float64) Move {
	p := s.policy
	if s.SnapEnabled {
		x, y = p.Snap(c, x, y, s.cabinets)
	}
	x, y = p.Clamp(c, x, y)
	if !p.CollidesAt(c, x, y, s.cabinets) {
		return Move{X: x, Y: y, Outcome: Accepted}
	}

	tx, ty := p.Clamp(c, x, lastY)
	if !p.CollidesAt(c, tx, ty, s.cabinets) {
		return Move{X: tx, Y: ty, Outcome: SlidX}
	}
	tx, ty = p.Clamp(c, lastX, y)
	if !p.CollidesAt(c, tx, ty, s.cabinets) {
		return Move{X: tx, Y: ty, Outcome: SlidY}
	}
	return Move{X: lastX, Y: lastY, Outcome: Rejected}
}

// EndDrag finishes the gesture. The cabinet stays at its last accepted
// position, which is returned.
func (s *Session) EndDrag() (model.Cabinet, bool) {
	if s.drag == nil {
		return model.Cabinet{}, false
	}
	id := s.drag.id
	s.drag = nil
	return s.Cabinet(id)
}

// SetRotation changes the rotation only. The position is left untouched even
// if the rotated outline now overlaps a neighbor or leaves the room.
func (s *Session) SetRotation(id string, deg float64) error {
	return s.update(id, func(c *model.Cabinet) { c.Rotation = deg })
}

// Rotate applies a new rotation and then tries to settle the cabinet: grid
// snap (when snapping is on) and clamp under the new rotation. The cabinet is
// moved only if that position is free; the rotation is applied either way.
func (s *Session) Rotate(id string, deg float64) (Move, error) {
	i := s.index(id)
	if i < 0 {
		return Move{}, fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	s.cabinets[i].Rotation = deg
	c := s.cabinets[i]

	x, y := c.X, c.Y
	if s.SnapEnabled {
		x, y = SnapToGrid(x, y, s.policy.GridPixels())
	}
	x, y = s.policy.Clamp(c, x, y)
	if s.policy.CollidesAt(c, x, y, s.cabinets) {
		return Move{X: c.X, Y: c.Y, Outcome: Rejected}, nil
	}
	s.cabinets[i].X, s.cabinets[i].Y = x, y
	return Move{X: x, Y: y, Outcome: Accepted}, nil
}

// Duplicate places a copy of the cabinet offset from the original, snapped to
// the grid when snapping is on and clamped into the room. The copy is placed
// even if it overlaps, and becomes the selection.
func (s *Session) Duplicate(id string) (model.Cabinet, error) {
	src, ok := s.Cabinet(id)
	if !ok {
		return model.Cabinet{}, fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	cp := model.NewCabinet(src.Name, src.Width, src.Height, src.Color)
	cp.Rotation = src.Rotation
	cp.Locked = src.Locked

	x, y := src.X+s.DuplicateOffset, src.Y+s.DuplicateOffset
	if s.SnapEnabled {
		x, y = SnapToGrid(x, y, s.policy.GridPixels())
	}
	cp.X, cp.Y = s.policy.Clamp(cp, x, y)

	s.cabinets = append(s.cabinets, cp)
	s.selected = cp.ID
	return cp, nil
}

// PlaceFirstFree creates a cabinet from t at the first free grid position
// and selects it. When the room is full the cabinet lands at the clamped
// origin, overlapping whatever is there.
func (s *Session) PlaceFirstFree(t model.CabinetTemplate) model.Cabinet {
	c := t.NewCabinet()
	x, y, found := s.policy.FirstFree(c, s.cabinets)
	if !found {
		applog.WithComponent("engine").Debug("no free slot, using origin",
			"cabinet", c.Name, "x", x, "y", y)
	}
	c.X, c.Y = x, y
	s.cabinets = append(s.cabinets, c)
	s.selected = c.ID
	return c
}
