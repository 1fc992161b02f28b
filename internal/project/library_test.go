package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cabinets.json")

	lib := model.NewLibrary[model.CabinetTemplate]()
	require.NoError(t, lib.Add("Cocktail", model.CabinetTemplate{Name: "Ms. Pac", Width: 0.8, Height: 0.8, Color: "#ffcc00", Rotation: 90}))
	require.NoError(t, lib.Add("Upright", model.CabinetTemplate{Name: "Joust", Width: 0.7, Height: 0.9}))
	require.NoError(t, SaveLibrary(path, lib))

	loaded, err := LoadLibrary[model.CabinetTemplate](path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cocktail", "Upright"}, loaded.Names())

	got, err := loaded.Find("Cocktail")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Rotation)
}

func TestLoadLibrary_NotFound(t *testing.T) {
	lib, err := LoadLibrary[model.Layout](filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, lib.Entries)
	assert.NotNil(t, lib.Entries)
}

func TestLoadLibrary_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadLibrary[model.Layout](path)
	assert.Error(t, err)
}
