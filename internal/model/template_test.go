package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryAddAndFind(t *testing.T) {
	lib := NewLibrary[CabinetTemplate]()
	require.NoError(t, lib.Add("Street Fighter", CabinetTemplate{Name: "SF2", Width: 1, Height: 1}))
	require.NoError(t, lib.Add("Pinball", CabinetTemplate{Name: "Pin", Width: 0.7, Height: 1.4}))

	got, err := lib.Find("Pinball")
	require.NoError(t, err)
	assert.Equal(t, 1.4, got.Height)
	assert.Equal(t, []string{"Street Fighter", "Pinball"}, lib.Names())
	assert.NotEmpty(t, lib.Entries[0].SavedAt)
}

func TestLibraryRejectsDuplicateName(t *testing.T) {
	lib := NewLibrary[Layout]()
	require.NoError(t, lib.Add("Basement", Layout{Title: "first"}))

	err := lib.Add("Basement", Layout{Title: "second"})
	assert.ErrorIs(t, err, ErrNameExists)

	got, err := lib.Find("Basement")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestLibraryRemove(t *testing.T) {
	lib := NewLibrary[Layout]()
	require.NoError(t, lib.Add("a", Layout{}))
	require.NoError(t, lib.Add("b", Layout{}))

	assert.True(t, lib.Remove("a"))
	assert.False(t, lib.Remove("a"))
	assert.Equal(t, []string{"b"}, lib.Names())

	_, err := lib.Find("a")
	assert.ErrorIs(t, err, ErrNotFound)
}
