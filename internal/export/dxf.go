package export

import (
	"fmt"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// DXF layer names.
const (
	LayerRoom     = "ROOM"
	LayerGrid     = "GRID"
	LayerCabinets = "CABINETS"
	LayerLabels   = "LABELS"
)

// dxfTextHeight is the label height in meters.
const dxfTextHeight = 0.1

// gridACI is AutoCAD color index 8, a mid grey.
const gridACI = color.ColorNumber(8)

// ExportDXF writes the floor plan as a DXF drawing in meters. The Y axis is
// flipped so the drawing reads the same way up as the screen.
func ExportDXF(path string, l model.Layout, ppu float64) error {
	if err := checkRoom(l); err != nil {
		return err
	}
	room := l.Room
	flip := func(y float64) float64 { return room.Height - y }

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerGrid, gridACI, table.LT_HIDDEN, true); err != nil {
		return fmt.Errorf("failed to add grid layer: %w", err)
	}
	for x := room.GridSize; x < room.Width-1e-9; x += room.GridSize {
		if _, err := d.Line(x, 0, 0, x, room.Height, 0); err != nil {
			return err
		}
	}
	for y := room.GridSize; y < room.Height-1e-9; y += room.GridSize {
		if _, err := d.Line(0, y, 0, room.Width, y, 0); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(LayerRoom, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add room layer: %w", err)
	}
	if _, err := d.LwPolyline(true,
		[]float64{0, 0, 0},
		[]float64{room.Width, 0, 0},
		[]float64{room.Width, room.Height, 0},
		[]float64{0, room.Height, 0},
	); err != nil {
		return fmt.Errorf("failed to draw room: %w", err)
	}

	cabinets := placeCabinets(l, ppu)
	if _, err := d.AddLayer(LayerCabinets, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add cabinet layer: %w", err)
	}
	for _, pc := range cabinets {
		vertices := make([][]float64, len(pc.Outline))
		for i, p := range pc.Outline {
			vertices[i] = []float64{p.X, flip(p.Y), 0}
		}
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return fmt.Errorf("failed to draw cabinet %q: %w", pc.Record.Name, err)
		}
	}

	if _, err := d.AddLayer(LayerLabels, color.Yellow, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add label layer: %w", err)
	}
	for _, pc := range cabinets {
		if pc.Record.Name == "" {
			continue
		}
		if _, err := d.Text(pc.Record.Name, pc.Center.X, flip(pc.Center.Y), 0, dxfTextHeight); err != nil {
			return fmt.Errorf("failed to label cabinet %q: %w", pc.Record.Name, err)
		}
	}

	return d.SaveAs(path)
}
