package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
)

// OpenJSON keeps rooms.json and cabinets.json inside dir.
func OpenJSON(dir string) *Slots {
	return &Slots{
		Rooms:    &fileStore[model.Layout]{path: filepath.Join(dir, "rooms.json")},
		Cabinets: &fileStore[model.CabinetTemplate]{path: filepath.Join(dir, "cabinets.json")},
	}
}

// fileStore reads and rewrites the whole file on every change.
type fileStore[T any] struct {
	path string
}

func (s *fileStore[T]) Save(_ context.Context, name string, v T) error {
	lib, err := project.LoadLibrary[T](s.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := lib.Add(name, v); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}
	if err := project.SaveLibrary(s.path, lib); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *fileStore[T]) Load(_ context.Context, name string) (T, error) {
	var zero T
	lib, err := project.LoadLibrary[T](s.path)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	v, err := lib.Find(name)
	if err != nil {
		return zero, fmt.Errorf("%w: %q", err, name)
	}
	return v, nil
}

func (s *fileStore[T]) Delete(_ context.Context, name string) error {
	lib, err := project.LoadLibrary[T](s.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if !lib.Remove(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := project.SaveLibrary(s.path, lib); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *fileStore[T]) Names(_ context.Context) ([]string, error) {
	lib, err := project.LoadLibrary[T](s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return lib.Names(), nil
}
