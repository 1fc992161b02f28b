package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
	"github.com/piwi3910/ArcadeLayout/internal/storage"
)

var errNoStorage = errors.New("saved rooms and cabinets are not available")

// ErrBlankName is returned when saving a cabinet whose name is empty.
var ErrBlankName = errors.New("cabinet must have a valid name")

// ─── Saved rooms ───────────────────────────────────────────

// SaveRoom stores the current layout under its title. An empty title saves
// as "Untitled Room"; an existing name is reported and left untouched.
func (w *Workspace) SaveRoom(ctx context.Context) error {
	if w.Slots == nil {
		return w.fail("save_room", errNoStorage)
	}
	name := strings.TrimSpace(w.Session.Title)
	if name == "" {
		name = model.DefaultRoomTitle
	}
	layout := w.Session.Snapshot()
	layout.Title = name

	if err := w.Slots.Rooms.Save(ctx, name, layout); err != nil {
		if errors.Is(err, storage.ErrNameExists) {
			return w.fail("save_room", fmt.Errorf("a saved room named %q already exists, please use a different name: %w", name, err))
		}
		return w.fail("save_room", fmt.Errorf("failed to save room %q: %w", name, err))
	}
	w.info("save_room", fmt.Sprintf("Room %q saved locally!", name))
	w.changed()
	return nil
}

// RoomNames lists saved rooms in the order they were saved.
func (w *Workspace) RoomNames(ctx context.Context) []string {
	if w.Slots == nil {
		return nil
	}
	names, err := w.Slots.Rooms.Names(ctx)
	if err != nil {
		applog.WithOperation(w.log, "list_rooms").Warn("failed to list rooms", "error", err)
		return nil
	}
	return names
}

// LoadRoom replaces the session with a saved room after confirmation.
func (w *Workspace) LoadRoom(ctx context.Context, name string) {
	if w.Slots == nil {
		w.fail("load_room", errNoStorage)
		return
	}
	w.confirm("Loading a saved room will overwrite your current layout.\n\nContinue?", "Load Room", func() {
		layout, err := w.Slots.Rooms.Load(ctx, name)
		if err != nil {
			w.fail("load_room", fmt.Errorf("failed to load room %q: %w", name, err))
			return
		}
		if err := w.Session.ReplaceLayout(layout); err != nil {
			w.fail("load_room", fmt.Errorf("saved room %q is invalid: %w", name, err))
			return
		}
		w.changed()
		w.info("load_room", fmt.Sprintf("Loaded saved room: %q", name))
	})
}

// DeleteRoom removes a saved room after confirmation.
func (w *Workspace) DeleteRoom(ctx context.Context, name string) {
	if w.Slots == nil {
		w.fail("delete_room", errNoStorage)
		return
	}
	w.confirm(fmt.Sprintf("Delete saved room %q?", name), "Delete", func() {
		if err := w.Slots.Rooms.Delete(ctx, name); err != nil {
			w.fail("delete_room", fmt.Errorf("failed to delete room %q: %w", name, err))
			return
		}
		w.changed()
		w.info("delete_room", fmt.Sprintf("Deleted room %q", name))
	})
}

// ─── Saved cabinets ────────────────────────────────────────

// SaveCabinet stores the selected cabinet under its name, rotation included.
func (w *Workspace) SaveCabinet(ctx context.Context) error {
	if w.Slots == nil {
		return w.fail("save_cabinet", errNoStorage)
	}
	c, err := w.selected("save_cabinet", "save it")
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return w.fail("save_cabinet", ErrBlankName)
	}
	t := c.Template()
	t.Name = name

	if err := w.Slots.Cabinets.Save(ctx, name, t); err != nil {
		if errors.Is(err, storage.ErrNameExists) {
			return w.fail("save_cabinet", fmt.Errorf("a saved cabinet named %q already exists, please use a different name: %w", name, err))
		}
		return w.fail("save_cabinet", fmt.Errorf("failed to save cabinet %q: %w", name, err))
	}
	w.info("save_cabinet", fmt.Sprintf("Cabinet %q saved successfully!", name))
	w.changed()
	return nil
}

// CabinetNames lists saved cabinets in the order they were saved.
func (w *Workspace) CabinetNames(ctx context.Context) []string {
	if w.Slots == nil {
		return nil
	}
	names, err := w.Slots.Cabinets.Names(ctx)
	if err != nil {
		applog.WithOperation(w.log, "list_cabinets").Warn("failed to list cabinets", "error", err)
		return nil
	}
	return names
}

// LoadCabinet places a saved cabinet at the first free grid slot.
func (w *Workspace) LoadCabinet(ctx context.Context, name string) (model.Cabinet, error) {
	if w.Slots == nil {
		return model.Cabinet{}, w.fail("load_cabinet", errNoStorage)
	}
	t, err := w.Slots.Cabinets.Load(ctx, name)
	if err != nil {
		return model.Cabinet{}, w.fail("load_cabinet", fmt.Errorf("failed to load cabinet %q: %w", name, err))
	}
	c := w.Session.PlaceFirstFree(t)
	applog.WithOperation(w.log, "load_cabinet").Info("cabinet placed", "name", name, "x", c.X, "y", c.Y)
	w.changed()
	w.info("load_cabinet", fmt.Sprintf("Loaded saved cabinet: %q", name))
	return c, nil
}

// DeleteCabinet removes a saved cabinet after confirmation.
func (w *Workspace) DeleteCabinet(ctx context.Context, name string) {
	if w.Slots == nil {
		w.fail("delete_cabinet_slot", errNoStorage)
		return
	}
	w.confirm(fmt.Sprintf("Delete saved cabinet %q?", name), "Delete", func() {
		if err := w.Slots.Cabinets.Delete(ctx, name); err != nil {
			w.fail("delete_cabinet_slot", fmt.Errorf("failed to delete cabinet %q: %w", name, err))
			return
		}
		w.changed()
		w.info("delete_cabinet_slot", fmt.Sprintf("Deleted cabinet %q", name))
	})
}

// ─── Backup ────────────────────────────────────────────────

// ExportBackup writes the config and every saved room and cabinet to path.
func (w *Workspace) ExportBackup(ctx context.Context, path string) error {
	if w.Slots == nil {
		return w.fail("export_backup", errNoStorage)
	}
	rooms, err := collect(ctx, w.Slots.Rooms)
	if err != nil {
		return w.fail("export_backup", fmt.Errorf("failed to read saved rooms: %w", err))
	}
	cabinets, err := collect(ctx, w.Slots.Cabinets)
	if err != nil {
		return w.fail("export_backup", fmt.Errorf("failed to read saved cabinets: %w", err))
	}
	if err := project.ExportAllData(path, w.Config, rooms, cabinets); err != nil {
		return w.fail("export_backup", err)
	}
	w.info("export_backup", fmt.Sprintf("Backup written: %d room(s), %d cabinet(s).", len(rooms.Entries), len(cabinets.Entries)))
	return nil
}

// ImportBackup restores saved rooms and cabinets from a backup file. Names
// that already exist are skipped. The config in the backup is not applied.
func (w *Workspace) ImportBackup(ctx context.Context, path string) error {
	if w.Slots == nil {
		return w.fail("import_backup", errNoStorage)
	}
	backup, err := project.ImportAllData(path)
	if err != nil {
		return w.fail("import_backup", err)
	}
	addedRooms, skippedRooms, err := restore(ctx, w.Slots.Rooms, backup.Rooms)
	if err != nil {
		return w.fail("import_backup", err)
	}
	addedCabs, skippedCabs, err := restore(ctx, w.Slots.Cabinets, backup.Cabinets)
	if err != nil {
		return w.fail("import_backup", err)
	}
	w.changed()
	w.info("import_backup", fmt.Sprintf("Restored %d room(s) and %d cabinet(s); skipped %d existing name(s).",
		addedRooms, addedCabs, skippedRooms+skippedCabs))
	return nil
}

// collect reads a whole store into a library, keeping the listing order.
func collect[T any](ctx context.Context, s storage.Store[T]) (model.Library[T], error) {
	lib := model.NewLibrary[T]()
	names, err := s.Names(ctx)
	if err != nil {
		return lib, err
	}
	for _, name := range names {
		v, err := s.Load(ctx, name)
		if err != nil {
			return lib, fmt.Errorf("%q: %w", name, err)
		}
		if err := lib.Add(name, v); err != nil {
			return lib, err
		}
	}
	return lib, nil
}

// restore saves every library entry into s, counting names that already existed.
func restore[T any](ctx context.Context, s storage.Store[T], lib model.Library[T]) (added, skipped int, err error) {
	for _, e := range lib.Entries {
		err := s.Save(ctx, e.Name, e.Value)
		switch {
		case err == nil:
			added++
		case errors.Is(err, storage.ErrNameExists):
			skipped++
		default:
			return added, skipped, fmt.Errorf("failed to restore %q: %w", e.Name, err)
		}
	}
	return added, skipped, nil
}
