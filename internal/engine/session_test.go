package engine

import (
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(model.DefaultAppConfig())
	assert.Equal(t, model.DefaultRoom(), s.Room())
	assert.Equal(t, model.DefaultLayoutTitle, s.Title)
	assert.True(t, s.SnapEnabled)
	assert.Equal(t, model.DefaultZoom, s.Viewport.Zoom)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 100.0, s.Policy().GridPixels())
}

func TestNewSessionRejectsInvalidDefaultRoom(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.DefaultRoom = model.Room{}
	s := NewSession(cfg)
	assert.Equal(t, model.DefaultRoom(), s.Room())
}

func TestSetRoom(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.SetRoom(model.Room{Width: 12, Height: 6, GridSize: 0.5}))
	assert.Equal(t, 50.0, s.Policy().GridPixels())

	err := s.SetRoom(model.Room{Width: 12, Height: 0, GridSize: 0.5})
	assert.ErrorIs(t, err, ErrInvalidRoom)
	assert.Equal(t, 12.0, s.Room().Width, "room unchanged after invalid update")
}

func TestDeleteClearsSelection(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 0, 0)
	b := place(s, "B", 1, 1, 200, 0)
	require.NoError(t, s.Select(a.ID))

	require.NoError(t, s.Delete(a.ID))
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, b.ID, s.Cabinets()[0].ID)

	assert.ErrorIs(t, s.Delete(a.ID), ErrUnknownCabinet)
}

func TestDeleteOtherKeepsSelection(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 0, 0)
	b := place(s, "B", 1, 1, 200, 0)
	require.NoError(t, s.Select(a.ID))
	require.NoError(t, s.Delete(b.ID))

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, a.ID, sel.ID)
}

func TestSelectAndDeselect(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 0, 0)

	assert.ErrorIs(t, s.Select("nope"), ErrUnknownCabinet)
	require.NoError(t, s.Select(a.ID))
	s.Deselect()
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestEditCabinet(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 300, 300)

	require.NoError(t, s.Rename(a.ID, "Donkey Kong"))
	require.NoError(t, s.Recolor(a.ID, "#aa0000"))
	require.NoError(t, s.Resize(a.ID, 0, -2))

	got, _ := s.Cabinet(a.ID)
	assert.Equal(t, "Donkey Kong", got.Name)
	assert.Equal(t, "#aa0000", got.Color)
	assert.Equal(t, 1.0, got.Width, "non-positive width falls back to 1")
	assert.Equal(t, 1.0, got.Height)
	assert.Equal(t, 300.0, got.X, "resize does not move the cabinet")

	require.NoError(t, s.Resize(a.ID, 2.5, 0.75))
	got, _ = s.Cabinet(a.ID)
	assert.Equal(t, 2.5, got.Width)
	assert.Equal(t, 0.75, got.Height)

	assert.ErrorIs(t, s.Rename("missing", "x"), ErrUnknownCabinet)
}

func TestToggleLockAndSnap(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 0, 0)

	locked, err := s.ToggleLock(a.ID)
	require.NoError(t, err)
	assert.True(t, locked)
	locked, err = s.ToggleLock(a.ID)
	require.NoError(t, err)
	assert.False(t, locked)

	assert.False(t, s.ToggleSnap())
	assert.True(t, s.ToggleSnap())
}

func TestHitTest_TopMostWins(t *testing.T) {
	s := newTestSession()
	place(s, "Bottom", 2, 2, 0, 0)
	top := place(s, "Top", 1, 1, 50, 50)

	got, ok := s.HitTest(100, 100)
	require.True(t, ok)
	assert.Equal(t, top.ID, got.ID)

	got, ok = s.HitTest(10, 10)
	require.True(t, ok)
	assert.Equal(t, "Bottom", got.Name)

	_, ok = s.HitTest(900, 900)
	assert.False(t, ok)
}

func TestHitTest_UsesRotatedOutline(t *testing.T) {
	s := newTestSession()
	place(s, "Long", 3, 1, 0, 300)
	require.NoError(t, s.SetRotation(s.Cabinets()[0].ID, 90))

	// rotated outline spans x in [100, 200], y in [200, 500]
	_, ok := s.HitTest(20, 350)
	assert.False(t, ok)
	_, ok = s.HitTest(150, 450)
	assert.True(t, ok)
}

func TestReplaceLayout_EmptyCabinetsClearsItems(t *testing.T) {
	s := newTestSession()
	a := place(s, "A", 1, 1, 0, 0)
	require.NoError(t, s.Select(a.ID))

	err := s.ReplaceLayout(model.Layout{
		Title: "Arcade",
		Room:  model.Room{Width: 8, Height: 6, GridSize: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, model.Room{Width: 8, Height: 6, GridSize: 0.5}, s.Room())
	assert.Equal(t, "Arcade", s.Title)
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestReplaceLayout_PlacesVerbatim(t *testing.T) {
	s := newTestSession()
	err := s.ReplaceLayout(model.Layout{
		Room: model.DefaultRoom(),
		Cabinets: []model.CabinetRecord{
			{Name: "A", Width: 2, Height: 2, X: 0, Y: 0},
			{Name: "B", Width: 2, Height: 2, X: 150, Y: 150, Rotation: 45, Locked: true},
			{Name: "C", Width: 1, Height: 1, X: 950, Y: 10},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	b := s.Cabinets()[1]
	assert.Equal(t, 150.0, b.X)
	assert.Equal(t, 150.0, b.Y)
	assert.Equal(t, 45.0, b.Rotation)
	assert.True(t, b.Locked)
	assert.Equal(t, model.DefaultLayoutTitle, s.Title, "empty title keeps the current one")
}

func TestReplaceLayout_InvalidRoomLeavesStateUnchanged(t *testing.T) {
	s := newTestSession()
	place(s, "A", 1, 1, 0, 0)

	err := s.ReplaceLayout(model.Layout{Room: model.Room{Width: -1, Height: 5, GridSize: 1}})
	assert.ErrorIs(t, err, ErrInvalidRoom)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, model.DefaultRoom(), s.Room())
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSession()
	s.Title = "Game Room"
	a := place(s, "A", 1, 2, 100, 200)
	require.NoError(t, s.SetRotation(a.ID, 30))

	snap := s.Snapshot()
	assert.Equal(t, "Game Room", snap.Title)
	require.Len(t, snap.Cabinets, 1)
	assert.Equal(t, model.CabinetRecord{
		Name: "A", Width: 1, Height: 2, Color: "#ff00ff", X: 100, Y: 200, Rotation: 30,
	}, snap.Cabinets[0])

	other := newTestSession()
	require.NoError(t, other.ReplaceLayout(snap))
	assert.Equal(t, snap, other.Snapshot())
}

func TestReset(t *testing.T) {
	s := newTestSession()
	s.Title = "Old"
	place(s, "A", 1, 1, 0, 0)

	require.NoError(t, s.Reset(model.Room{Width: 5, Height: 5, GridSize: 1}))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 5.0, s.Room().Width)
	assert.Equal(t, model.DefaultLayoutTitle, s.Title)
}
