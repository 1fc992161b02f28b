package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// SaveLibrary writes a named collection to a JSON file.
func SaveLibrary[T any](path string, lib model.Library[T]) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a named collection from a JSON file.
// If the file does not exist, returns an empty collection.
func LoadLibrary[T any](path string) (model.Library[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLibrary[T](), nil
		}
		return model.Library[T]{}, err
	}
	var lib model.Library[T]
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.Library[T]{}, err
	}
	if lib.Entries == nil {
		lib.Entries = []model.Named[T]{}
	}
	return lib, nil
}
