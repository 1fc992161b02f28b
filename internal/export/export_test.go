package export

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// buildTestLayout creates a small arcade with an upright, a rotated
// sit-down cabinet and a locked pinball machine.
func buildTestLayout() model.Layout {
	return model.Layout{
		Title: "Basement Arcade",
		Room:  model.Room{Width: 10, Height: 8, GridSize: 1},
		Cabinets: []model.CabinetRecord{
			{Name: "Galaga", Width: 1, Height: 1, Color: "#ff0000", X: 0, Y: 0},
			{Name: "Outrun", Width: 1.5, Height: 2, Color: "#0000ff", X: 300, Y: 200, Rotation: 90},
			{Name: "Pinball", Width: 0.75, Height: 1.5, Color: "#0f0", X: 600, Y: 400, Locked: true},
		},
	}
}

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#ff8000")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, ok = ParseHexColor("#0f0")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, c)

	for _, bad := range []string{"", "red", "#12345", "#gggggg"} {
		c, ok = ParseHexColor(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, fallbackColor, c, bad)
	}
}

func TestPlaceCabinets_MetersAndRotation(t *testing.T) {
	placed := placeCabinets(buildTestLayout(), 100)
	require.Len(t, placed, 3)

	min, max := placed[0].Outline.BoundingBox()
	assert.InDelta(t, 0, min.X, 1e-9)
	assert.InDelta(t, 0, min.Y, 1e-9)
	assert.InDelta(t, 1, max.X, 1e-9)
	assert.InDelta(t, 1, max.Y, 1e-9)

	// Outrun is 1.5 x 2 at (3, 2) turned a quarter: 2 wide, 1.5 deep around (3.75, 3).
	out := placed[1]
	min, max = out.Outline.BoundingBox()
	assert.InDelta(t, 2.75, min.X, 1e-9)
	assert.InDelta(t, 2.25, min.Y, 1e-9)
	assert.InDelta(t, 4.75, max.X, 1e-9)
	assert.InDelta(t, 3.75, max.Y, 1e-9)
	assert.InDelta(t, 3.75, out.Center.X, 1e-9)
	assert.InDelta(t, 3.0, out.Center.Y, 1e-9)
}

func TestRenderImage(t *testing.T) {
	l := model.Layout{
		Room: model.Room{Width: 10, Height: 10, GridSize: 1},
		Cabinets: []model.CabinetRecord{
			{Width: 1, Height: 1, Color: "#ff0000"},
		},
	}

	img, err := RenderImage(l, 100, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(10, 40), "cabinet interior")
	assert.Equal(t, roomBackground, img.RGBAAt(325, 325), "empty floor")
	assert.Equal(t, gridColor, img.RGBAAt(150, 325), "grid line")
}

func TestRenderImage_Errors(t *testing.T) {
	_, err := RenderImage(model.Layout{Room: model.Room{Width: 0, Height: 5, GridSize: 1}}, 100, 1)
	assert.Error(t, err)

	_, err = RenderImage(model.Layout{Room: model.Room{Width: 100, Height: 100, GridSize: 1}}, 100, 2)
	assert.Error(t, err, "image larger than the cap")
}

func TestExportPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.png")
	require.NoError(t, ExportPNG(path, buildTestLayout(), 100, 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")
	require.NoError(t, ExportPDF(path, buildTestLayout(), 100))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportPDF_EmptyAndLongSchedules(t *testing.T) {
	dir := t.TempDir()

	empty := model.Layout{Title: "Empty", Room: model.DefaultRoom()}
	require.NoError(t, ExportPDF(filepath.Join(dir, "empty.pdf"), empty, 100))

	long := model.Layout{Title: "Warehousé", Room: model.Room{Width: 50, Height: 50, GridSize: 0.5}}
	for i := 0; i < 80; i++ {
		long.Cabinets = append(long.Cabinets, model.CabinetRecord{
			Name: "Cab", Width: 1, Height: 1, Color: "#336699", X: float64(i%40) * 100, Y: float64(i/40) * 100,
		})
	}
	require.NoError(t, ExportPDF(filepath.Join(dir, "long.pdf"), long, 100))
}

func TestExportPDF_InvalidRoom(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "x.pdf"), model.Layout{}, 100)
	assert.Error(t, err)
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestLayout(), 100)
	require.Len(t, labels, 3)

	assert.Equal(t, LabelInfo{
		Room: "Basement Arcade", Index: 2, Name: "Outrun",
		Width: 1.5, Height: 2, X: 3, Y: 2, Rotation: 90, Color: "#0000ff",
	}, labels[1])
}

func TestExportLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, buildTestLayout(), 100))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportLabels_MultiplePages(t *testing.T) {
	l := model.Layout{Title: "Big", Room: model.Room{Width: 20, Height: 20, GridSize: 1}}
	for i := 0; i < labelsPerPage+5; i++ {
		l.Cabinets = append(l.Cabinets, model.CabinetRecord{Name: "Defender", Width: 0.7, Height: 0.9, Color: "#ffcc00"})
	}
	require.NoError(t, ExportLabels(filepath.Join(t.TempDir(), "labels.pdf"), l, 100))
}

func TestExportLabels_NoCabinets(t *testing.T) {
	err := ExportLabels(filepath.Join(t.TempDir(), "labels.pdf"), model.Layout{Room: model.DefaultRoom()}, 100)
	assert.Error(t, err)
}

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	l := buildTestLayout()
	require.NoError(t, ExportDXF(path, l, 100))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var polylines, lines int
	for _, ent := range drawing.Entities() {
		switch ent.(type) {
		case *entity.LwPolyline:
			polylines++
		case *entity.Line:
			lines++
		}
	}
	assert.Equal(t, 1+len(l.Cabinets), polylines, "room outline plus one per cabinet")
	assert.Equal(t, 9+7, lines, "interior grid lines of a 10x8 room")
}
