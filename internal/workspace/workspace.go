// Package workspace holds the user-facing actions of the floor planner:
// editing the session, confirming destructive steps, saving named slots and
// moving layouts in and out of files. The UI calls these methods and
// supplies the dialogs through Prompter.
package workspace

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/engine"
	"github.com/piwi3910/ArcadeLayout/internal/export"
	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
	"github.com/piwi3910/ArcadeLayout/internal/storage"
)

// ErrRasterizerUnavailable is reported when image export is requested and
// no rasterizer is installed.
var ErrRasterizerUnavailable = errors.New("image rasterizer not available")

// ErrNoSelection is returned by actions that need a selected cabinet.
var ErrNoSelection = errors.New("no cabinet selected")

// Prompter shows dialogs. Confirm is asynchronous: onResult runs once the
// user answers. Info and Error block only the user, not the caller.
type Prompter interface {
	Confirm(message, confirmLabel string, onResult func(ok bool))
	Info(message string)
	Error(err error)
}

// Rasterizer renders a layout to an image.
type Rasterizer interface {
	Rasterize(l model.Layout, ppu, scale float64) (image.Image, error)
}

// RasterizerFunc adapts a function to the Rasterizer interface.
type RasterizerFunc func(l model.Layout, ppu, scale float64) (image.Image, error)

func (f RasterizerFunc) Rasterize(l model.Layout, ppu, scale float64) (image.Image, error) {
	return f(l, ppu, scale)
}

// DefaultRasterizer renders with the built-in vector renderer.
var DefaultRasterizer Rasterizer = RasterizerFunc(func(l model.Layout, ppu, scale float64) (image.Image, error) {
	return export.RenderImage(l, ppu, scale)
})

// Workspace binds a session to its storage, config and dialogs.
type Workspace struct {
	Session    *engine.Session
	Config     model.AppConfig
	ConfigPath string // empty disables writing the config back
	Slots      *storage.Slots
	Prompter   Prompter
	Rasterizer Rasterizer

	// OnChange runs after every action that changed the session or slots.
	OnChange func()

	log *slog.Logger
}

// New creates a workspace with an empty session built from cfg.
func New(cfg model.AppConfig, slots *storage.Slots, prompter Prompter) *Workspace {
	return &Workspace{
		Session:    engine.NewSession(cfg),
		Config:     cfg,
		Slots:      slots,
		Prompter:   prompter,
		Rasterizer: DefaultRasterizer,
		log:        applog.WithComponent("workspace"),
	}
}

func (w *Workspace) changed() {
	if w.OnChange != nil {
		w.OnChange()
	}
}

// fail logs err for op and shows it to the user.
func (w *Workspace) fail(op string, err error) error {
	applog.WithOperation(w.log, op).Warn("action failed", "error", err)
	if w.Prompter != nil {
		w.Prompter.Error(err)
	}
	return err
}

func (w *Workspace) info(op, message string) {
	applog.WithOperation(w.log, op).Info(message)
	if w.Prompter != nil {
		w.Prompter.Info(message)
	}
}

// confirm asks before running action. Without a prompter the action runs.
func (w *Workspace) confirm(message, label string, action func()) {
	if w.Prompter == nil {
		action()
		return
	}
	w.Prompter.Confirm(message, label, func(ok bool) {
		if ok {
			action()
		}
	})
}

// selected returns the selection or reports that one is needed to do action.
func (w *Workspace) selected(op, action string) (model.Cabinet, error) {
	c, ok := w.Session.Selected()
	if !ok {
		return c, w.fail(op, fmt.Errorf("select a cabinet first to %s: %w", action, ErrNoSelection))
	}
	return c, nil
}

// ─── Session editing ───────────────────────────────────────

// AddCabinet places a new cabinet from t at the room origin without any
// placement checks and selects it. Non-positive sizes fall back to 1 m.
func (w *Workspace) AddCabinet(t model.CabinetTemplate) model.Cabinet {
	if t.Width <= 0 {
		t.Width = 1
	}
	if t.Height <= 0 {
		t.Height = 1
	}
	if strings.TrimSpace(t.Color) == "" {
		t.Color = model.DefaultCabinetColor
	}
	c := t.NewCabinet()
	w.Session.Add(c)
	if err := w.Session.Select(c.ID); err != nil {
		w.fail("add_cabinet", err)
	}
	applog.WithOperation(w.log, "add_cabinet").Info("cabinet added", "id", c.ID, "name", c.Name)
	w.changed()
	return c
}

// DeleteSelected removes the selected cabinet after confirmation.
func (w *Workspace) DeleteSelected() {
	c, ok := w.Session.Selected()
	if !ok {
		return
	}
	w.confirm("Delete selected cabinet?", "Delete", func() {
		if err := w.Session.Delete(c.ID); err != nil {
			w.fail("delete_cabinet", err)
			return
		}
		applog.WithOperation(w.log, "delete_cabinet").Info("cabinet deleted", "id", c.ID, "name", c.Name)
		w.changed()
	})
}

// DuplicateSelected copies the selected cabinet next to itself.
func (w *Workspace) DuplicateSelected() (model.Cabinet, error) {
	c, err := w.selected("duplicate", "duplicate it")
	if err != nil {
		return model.Cabinet{}, err
	}
	cp, err := w.Session.Duplicate(c.ID)
	if err != nil {
		return model.Cabinet{}, w.fail("duplicate", err)
	}
	applog.WithOperation(w.log, "duplicate").Info("cabinet duplicated", "source", c.ID, "id", cp.ID, "x", cp.X, "y", cp.Y)
	w.changed()
	return cp, nil
}

// UpdateSelected applies name, size and color edits from the details panel.
func (w *Workspace) UpdateSelected(t model.CabinetTemplate) error {
	c, err := w.selected("update_cabinet", "edit it")
	if err != nil {
		return err
	}
	if err := w.Session.Rename(c.ID, t.Name); err != nil {
		return w.fail("update_cabinet", err)
	}
	if t.Color != "" {
		if err := w.Session.Recolor(c.ID, t.Color); err != nil {
			return w.fail("update_cabinet", err)
		}
	}
	if err := w.Session.Resize(c.ID, t.Width, t.Height); err != nil {
		return w.fail("update_cabinet", err)
	}
	w.changed()
	return nil
}

// RotateSelected applies the details-bar rotation: the angle changes and the
// cabinet stays where it is.
func (w *Workspace) RotateSelected(deg float64) error {
	c, ok := w.Session.Selected()
	if !ok {
		return nil
	}
	if err := w.Session.SetRotation(c.ID, deg); err != nil {
		return w.fail("rotate", err)
	}
	applog.WithOperation(w.log, "rotate").Debug("rotation set", "id", c.ID, "rotation", deg)
	w.changed()
	return nil
}

// RotateAndPlaceSelected applies the property-panel rotation, which also
// snaps and clamps the cabinet and moves it when the new spot is free.
func (w *Workspace) RotateAndPlaceSelected(deg float64) (engine.Move, error) {
	c, ok := w.Session.Selected()
	if !ok {
		return engine.Move{}, nil
	}
	mv, err := w.Session.Rotate(c.ID, deg)
	if err != nil {
		return engine.Move{}, w.fail("rotate", err)
	}
	applog.WithOperation(w.log, "rotate").Debug("rotation placed", "id", c.ID, "rotation", deg, "outcome", mv.Outcome)
	w.changed()
	return mv, nil
}

// ToggleLockSelected flips the lock on the selected cabinet.
func (w *Workspace) ToggleLockSelected() (bool, error) {
	c, ok := w.Session.Selected()
	if !ok {
		return false, nil
	}
	locked, err := w.Session.ToggleLock(c.ID)
	if err != nil {
		return false, w.fail("toggle_lock", err)
	}
	w.changed()
	return locked, nil
}

// ToggleSnap flips snapping for the session.
func (w *Workspace) ToggleSnap() bool {
	on := w.Session.ToggleSnap()
	applog.WithOperation(w.log, "toggle_snap").Debug("snapping toggled", "enabled", on)
	w.changed()
	return on
}

// SetTitle renames the layout.
func (w *Workspace) SetTitle(title string) {
	w.Session.Title = title
	w.changed()
}

// UpdateRoom resizes the room. Cabinets keep their positions.
func (w *Workspace) UpdateRoom(r model.Room) error {
	if err := w.Session.SetRoom(r); err != nil {
		return w.fail("update_room", err)
	}
	applog.WithOperation(w.log, "update_room").Info("room updated", "width", r.Width, "height", r.Height, "grid", r.GridSize)
	w.changed()
	return nil
}

// ResetRoom clears the session back to the default room after confirmation.
func (w *Workspace) ResetRoom() {
	w.confirm("Any unsaved rooms or cabinets will be lost.", "Reset", func() {
		room := w.Config.DefaultRoom
		if !room.Valid() {
			room = model.DefaultRoom()
		}
		if err := w.Session.Reset(room); err != nil {
			w.fail("reset", err)
			return
		}
		applog.WithOperation(w.log, "reset").Info("session reset")
		w.changed()
	})
}

// Deselect clears the selection.
func (w *Workspace) Deselect() {
	w.Session.Deselect()
	w.changed()
}

// ─── Pointer input ─────────────────────────────────────────

// PointerDown selects the top-most cabinet under the view position and
// starts dragging it unless it is locked. Empty floor clears the selection.
func (w *Workspace) PointerDown(viewX, viewY float64) (model.Cabinet, bool) {
	x, y := w.Session.Viewport.ToRoom(viewX, viewY)
	c, ok := w.Session.HitTest(x, y)
	if !ok {
		w.Deselect()
		return model.Cabinet{}, false
	}
	if _, err := w.Session.BeginDrag(c.ID, viewX, viewY); err != nil {
		w.fail("drag", err)
		return model.Cabinet{}, false
	}
	w.changed()
	return c, true
}

// PointerMove moves the dragged cabinet. It does nothing outside a drag.
func (w *Workspace) PointerMove(viewX, viewY float64) (engine.Move, bool) {
	mv, ok := w.Session.DragTo(viewX, viewY)
	if ok {
		w.changed()
	}
	return mv, ok
}

// PointerUp ends the drag, leaving the cabinet at its last accepted position.
func (w *Workspace) PointerUp() {
	c, ok := w.Session.EndDrag()
	if !ok {
		return
	}
	applog.WithOperation(w.log, "drag").Debug("drag ended", "id", c.ID, "x", c.X, "y", c.Y)
	w.changed()
}

// ─── View ──────────────────────────────────────────────────

// ZoomIn and ZoomOut step the viewport zoom.
func (w *Workspace) ZoomIn() float64 {
	w.Session.Viewport.ZoomIn()
	w.changed()
	return w.Session.Viewport.Zoom
}

func (w *Workspace) ZoomOut() float64 {
	w.Session.Viewport.ZoomOut()
	w.changed()
	return w.Session.Viewport.Zoom
}

// CheckOverlaps reports overlapping or out-of-room cabinets.
func (w *Workspace) CheckOverlaps() []engine.Overlap {
	overlaps := w.Session.CheckOverlaps()
	if len(overlaps) == 0 {
		w.info("check_overlaps", "No overlapping cabinets.")
		return nil
	}
	msgs := engine.FormatOverlapWarnings(overlaps)
	w.info("check_overlaps", fmt.Sprintf("%d problem(s) found:\n%s", len(msgs), strings.Join(msgs, "\n")))
	return overlaps
}

// ─── Preferences ───────────────────────────────────────────

// SetDarkMode stores the theme preference.
func (w *Workspace) SetDarkMode(dark bool) {
	w.Config.DarkMode = dark
	w.saveConfig()
}

// SetSimpleMode stores the simple/advanced UI preference.
func (w *Workspace) SetSimpleMode(simple bool) {
	w.Config.SimpleMode = simple
	w.saveConfig()
}

func (w *Workspace) rememberLayout(path string) {
	w.Config.AddRecentLayout(path)
	w.saveConfig()
}

func (w *Workspace) saveConfig() {
	if w.ConfigPath == "" {
		return
	}
	if err := project.SaveAppConfig(w.ConfigPath, w.Config); err != nil {
		applog.WithOperation(w.log, "save_config").Warn("failed to save config", "path", w.ConfigPath, "error", err)
	}
}
