package project

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLayout_Full(t *testing.T) {
	data := []byte(`{
		"title": "Basement Arcade",
		"room": {"width": 12, "height": 8, "gridSize": 0.5},
		"cabinets": [
			{"name": "Galaga", "width": 0.7, "height": 0.9, "color": "#ff0000", "x": 100, "y": 50, "rotation": 90, "locked": true},
			{"name": "Pong", "width": 1, "height": 1, "color": "#ffffff", "x": 300, "y": 0, "rotation": 0, "locked": false}
		]
	}`)

	l, err := DecodeLayout(data)
	require.NoError(t, err)
	assert.Equal(t, "Basement Arcade", l.Title)
	assert.Equal(t, model.Room{Width: 12, Height: 8, GridSize: 0.5}, l.Room)
	require.Len(t, l.Cabinets, 2)
	assert.Equal(t, model.CabinetRecord{
		Name: "Galaga", Width: 0.7, Height: 0.9, Color: "#ff0000", X: 100, Y: 50, Rotation: 90, Locked: true,
	}, l.Cabinets[0])
}

func TestDecodeLayout_EmptyCabinets(t *testing.T) {
	l, err := DecodeLayout([]byte(`{"room": {"width": 5, "height": 4, "gridSize": 1}, "cabinets": []}`))
	require.NoError(t, err)
	assert.Empty(t, l.Cabinets)
	assert.Equal(t, model.DefaultLayoutTitle, l.Title)
}

func TestDecodeLayout_MissingCabinetsArray(t *testing.T) {
	l, err := DecodeLayout([]byte(`{"room": {"width": 5, "height": 4, "gridSize": 1}}`))
	require.NoError(t, err)
	assert.Empty(t, l.Cabinets)
}

func TestDecodeLayout_MetaTitleFallback(t *testing.T) {
	l, err := DecodeLayout([]byte(`{"meta": {"title": "From Meta"}, "room": {"width": 5, "height": 4, "gridSize": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, "From Meta", l.Title)

	l, err = DecodeLayout([]byte(`{"title": 42, "meta": "junk", "room": {"width": 5, "height": 4, "gridSize": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLayoutTitle, l.Title)
}

func TestDecodeLayout_TolerantCabinetFields(t *testing.T) {
	data := []byte(`{
		"room": {"width": "10", "height": "10", "gridSize": "1"},
		"cabinets": [
			{"width": "2", "height": "abc", "x": "150", "y": null, "rotation": "sideways", "locked": "yes"},
			{"width": -3, "height": 0, "rotation": "45"}
		]
	}`)

	l, err := DecodeLayout(data)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRoom(), l.Room)
	require.Len(t, l.Cabinets, 2)

	first := l.Cabinets[0]
	assert.Equal(t, model.DefaultCabinetName, first.Name)
	assert.Equal(t, model.DefaultCabinetColor, first.Color)
	assert.Equal(t, 2.0, first.Width)
	assert.Equal(t, 1.0, first.Height, "unparsable height falls back to 1")
	assert.Equal(t, 150.0, first.X)
	assert.Equal(t, 0.0, first.Y)
	assert.Equal(t, 0.0, first.Rotation)
	assert.True(t, first.Locked)

	second := l.Cabinets[1]
	assert.Equal(t, 1.0, second.Width)
	assert.Equal(t, 1.0, second.Height)
	assert.Equal(t, 45.0, second.Rotation)
	assert.False(t, second.Locked)
}

func TestDecodeLayout_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"room": `},
		{"no room", `{"title": "x", "cabinets": []}`},
		{"room missing grid", `{"room": {"width": 5, "height": 5}}`},
		{"zero width", `{"room": {"width": 0, "height": 5, "gridSize": 1}}`},
		{"non numeric height", `{"room": {"width": 5, "height": "tall", "gridSize": 1}}`},
		{"room wrong type", `{"room": [1, 2, 3]}`},
		{"cabinets not array", `{"room": {"width": 5, "height": 5, "gridSize": 1}, "cabinets": "none"}`},
		{"top level array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLayout([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "Arcade_Layout.json")
	l := model.Layout{
		Title: "Arcade",
		Room:  model.Room{Width: 10, Height: 6, GridSize: 0.5},
		Cabinets: []model.CabinetRecord{
			{Name: "Tempest", Width: 0.75, Height: 0.9, Color: "#112233", X: 25, Y: 75, Rotation: 180, Locked: true},
		},
	}
	require.NoError(t, WriteLayout(path, l))

	got, err := ReadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestEncodeLayout_EmptyCabinetsIsArray(t *testing.T) {
	data, err := EncodeLayout(model.Layout{Title: "Empty", Room: model.DefaultRoom()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cabinets": []`)
	assert.Contains(t, string(data), `"gridSize": 1`)
}

func TestDecodeCabinet(t *testing.T) {
	c, err := DecodeCabinet([]byte(`{"name": "Robotron", "width": 0.7, "height": "0.9", "color": "#00ff00"}`))
	require.NoError(t, err)
	assert.Equal(t, model.CabinetTemplate{Name: "Robotron", Width: 0.7, Height: 0.9, Color: "#00ff00"}, c)

	c, err = DecodeCabinet([]byte(`{"width": 1, "height": 2}`))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCabinetName, c.Name)
	assert.Equal(t, model.DefaultCabinetColor, c.Color)
}

func TestDecodeCabinet_MissingDimensions(t *testing.T) {
	for _, data := range []string{
		`{"name": "x", "width": 1}`,
		`{"name": "x", "width": 0, "height": 1}`,
		`{"name": "x", "width": "wide", "height": 1}`,
		`not json`,
	} {
		_, err := DecodeCabinet([]byte(data))
		assert.ErrorIs(t, err, ErrMalformed, data)
	}
}

func TestCabinetFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cab_Cabinet.json")
	tmpl := model.CabinetTemplate{Name: "Centipede", Width: 0.65, Height: 0.85, Color: "#abcdef", Rotation: 90}
	require.NoError(t, WriteCabinet(path, tmpl))

	got, err := ReadCabinet(path)
	require.NoError(t, err)
	tmpl.Rotation = 0 // rotation is not part of the cabinet file
	assert.Equal(t, tmpl, got)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "My Arcade Room", SanitizeFilename(`  My <Arcade>   Room?  `, "x"))
	assert.Equal(t, "ab", SanitizeFilename(`a\/:*?"<>|b`, "x"))
	assert.Equal(t, "fallback", SanitizeFilename(`:::`, "fallback"))
	assert.Equal(t, "fallback", SanitizeFilename("", "fallback"))

	long := strings.Repeat("x", 200)
	assert.Len(t, SanitizeFilename(long, "x"), 120)
}

func TestExportFilenames(t *testing.T) {
	assert.Equal(t, "Arcade Layout_Layout.json", ExportFilename("", SuffixLayout))
	assert.Equal(t, "GameRoom_Layout.png", ExportFilename("Game/Room", SuffixImage))
	assert.Equal(t, "Cabinet_Cabinet.json", CabinetFilename("  "))
	assert.Equal(t, "Joust_Cabinet.json", CabinetFilename("Joust"))
}
