package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

var (
	// ErrUnknownCabinet is returned when an ID does not match any placed cabinet.
	ErrUnknownCabinet = errors.New("unknown cabinet")
	// ErrInvalidRoom is returned when a room dimension is not strictly positive.
	ErrInvalidRoom = errors.New("room width, height and grid size must be positive")
)

// Session is the editable state of one room: the room itself, the ordered
// cabinets, the selection, the snapping toggle and any drag in progress.
// It is not safe for concurrent use; all calls come from the UI goroutine.
type Session struct {
	Title           string
	Viewport        model.Viewport
	SnapEnabled     bool
	DuplicateOffset float64 // pixels

	policy   Policy
	cabinets []model.Cabinet
	selected string
	drag     *dragState
}

// NewSession creates an empty session using the placement defaults from cfg.
func NewSession(cfg model.AppConfig) *Session {
	room := cfg.DefaultRoom
	if !room.Valid() {
		room = model.DefaultRoom()
	}
	vp := cfg.Viewport()
	return &Session{
		Title:           model.DefaultLayoutTitle,
		Viewport:        vp,
		SnapEnabled:     cfg.SnapEnabled,
		DuplicateOffset: cfg.DuplicateOffset,
		policy: Policy{
			Room:          room,
			PixelsPerUnit: vp.PixelsPerUnit,
			SnapThreshold: cfg.SnapThreshold,
		},
	}
}

// Room returns the current room.
func (s *Session) Room() model.Room { return s.policy.Room }

// Policy returns the placement rules for the current room.
func (s *Session) Policy() Policy { return s.policy }

// SetRoom replaces the room. Cabinets keep their positions.
func (s *Session) SetRoom(r model.Room) error {
	if !r.Valid() {
		return fmt.Errorf("%w: got %gx%g grid %g", ErrInvalidRoom, r.Width, r.Height, r.GridSize)
	}
	s.policy.Room = r
	return nil
}

// Cabinets returns a copy of the placed cabinets in z-order.
func (s *Session) Cabinets() []model.Cabinet {
	out := make([]model.Cabinet, len(s.cabinets))
	copy(out, s.cabinets)
	return out
}

// Len returns the number of placed cabinets.
func (s *Session) Len() int { return len(s.cabinets) }

// Cabinet returns the cabinet with the given ID.
func (s *Session) Cabinet(id string) (model.Cabinet, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Cabinet{}, false
	}
	return s.cabinets[i], true
}

func (s *Session) index(id string) int {
	for i, c := range s.cabinets {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// update applies fn to the cabinet with the given ID in place.
func (s *Session) update(id string, fn func(c *model.Cabinet)) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	fn(&s.cabinets[i])
	return nil
}

// Add appends c at its own position without any placement checks.
func (s *Session) Add(c model.Cabinet) {
	s.cabinets = append(s.cabinets, c)
}

// Delete removes the cabinet and clears the selection if it pointed at it.
func (s *Session) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	s.cabinets = append(s.cabinets[:i], s.cabinets[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	if s.drag != nil && s.drag.id == id {
		s.drag = nil
	}
	return nil
}

// Select marks the cabinet as the single selected one.
func (s *Session) Select(id string) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCabinet, id)
	}
	s.selected = id
	return nil
}

// Deselect clears the selection.
func (s *Session) Deselect() { s.selected = "" }

// Selected returns the selected cabinet, if any.
func (s *Session) Selected() (model.Cabinet, bool) {
	if s.selected == "" {
		return model.Cabinet{}, false
	}
	return s.Cabinet(s.selected)
}

// Rename sets the display name.
func (s *Session) Rename(id, name string) error {
	return s.update(id, func(c *model.Cabinet) { c.Name = name })
}

// Recolor sets the fill color.
func (s *Session) Recolor(id, color string) error {
	return s.update(id, func(c *model.Cabinet) { c.Color = color })
}

// Resize sets the size in meters. Non-positive values fall back to 1.
// The cabinet is not moved, so the result may overlap or leave the room.
func (s *Session) Resize(id string, w, h float64) error {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return s.update(id, func(c *model.Cabinet) { c.Width, c.Height = w, h })
}

// SetLocked locks or unlocks a cabinet against dragging.
func (s *Session) SetLocked(id string, locked bool) error {
	return s.update(id, func(c *model.Cabinet) { c.Locked = locked })
}

// ToggleLock flips the lock state and returns the new value.
func (s *Session) ToggleLock(id string) (bool, error) {
	var locked bool
	err := s.update(id, func(c *model.Cabinet) {
		c.Locked = !c.Locked
		locked = c.Locked
	})
	return locked, err
}

// ToggleSnap flips snapping and returns the new value.
func (s *Session) ToggleSnap() bool {
	s.SnapEnabled = !s.SnapEnabled
	return s.SnapEnabled
}

// HitTest returns the top-most cabinet whose rotated outline contains the
// room-pixel point (x, y).
func (s *Session) HitTest(x, y float64) (model.Cabinet, bool) {
	p := model.Point2D{X: x, Y: y}
	for i := len(s.cabinets) - 1; i >= 0; i-- {
		c := s.cabinets[i]
		if geometry.Contains(geometry.CabinetOutline(c, c.X, c.Y, s.policy.PixelsPerUnit), p) {
			return c, true
		}
	}
	return model.Cabinet{}, false
}

// Reset empties the session and installs room.
func (s *Session) Reset(room model.Room) error {
	if err := s.SetRoom(room); err != nil {
		return err
	}
	s.cabinets = nil
	s.selected = ""
	s.drag = nil
	s.Title = model.DefaultLayoutTitle
	return nil
}

// ReplaceLayout installs a layout wholesale. Cabinets are placed at their
// stored positions without snapping, clamping or collision checks.
func (s *Session) ReplaceLayout(l model.Layout) error {
	if !l.Room.Valid() {
		return fmt.Errorf("%w: got %gx%g grid %g", ErrInvalidRoom, l.Room.Width, l.Room.Height, l.Room.GridSize)
	}
	cabinets := make([]model.Cabinet, 0, len(l.Cabinets))
	for _, r := range l.Cabinets {
		cabinets = append(cabinets, r.Cabinet())
	}
	s.policy.Room = l.Room
	s.cabinets = cabinets
	s.selected = ""
	s.drag = nil
	if l.Title != "" {
		s.Title = l.Title
	}
	return nil
}

// Snapshot returns the session as a layout record.
func (s *Session) Snapshot() model.Layout {
	records := make([]model.CabinetRecord, len(s.cabinets))
	for i, c := range s.cabinets {
		records[i] = c.Record()
	}
	return model.Layout{
		Title:    s.Title,
		Room:     s.policy.Room,
		Cabinets: records,
	}
}
