// Package storage keeps the named room and cabinet collections. Two backends
// exist: an embedded SQLite database (default) and plain JSON files.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/piwi3910/ArcadeLayout/internal/model"
)

var (
	// ErrNameExists is returned by Save when the name is already taken.
	ErrNameExists = model.ErrNameExists
	// ErrNotFound is returned by Load and Delete for unknown names.
	ErrNotFound = model.ErrNotFound
)

// Store is a namespace of uniquely named values listed in insertion order.
type Store[T any] interface {
	Save(ctx context.Context, name string, v T) error
	Load(ctx context.Context, name string) (T, error)
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
}

// Slots groups the two namespaces used by the application.
type Slots struct {
	Rooms    Store[model.Layout]
	Cabinets Store[model.CabinetTemplate]

	close func() error
}

// Close releases the backend.
func (s *Slots) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open creates the backend selected by backend inside dir.
func Open(backend, dir string) (*Slots, error) {
	switch backend {
	case model.StorageJSON:
		return OpenJSON(dir), nil
	case model.StorageSQLite, "":
		return OpenSQLite(filepath.Join(dir, DatabaseFileName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
