package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in the schedule workbook.
const (
	ScheduleSheet = "Cabinets"
	RoomSheet     = "Room"
)

// ScheduleHeaders is the header row of the cabinet sheet. The first three
// columns match the spreadsheet importer so a schedule can be read back.
var ScheduleHeaders = []string{"Name", "Width (m)", "Height (m)", "Color", "X (m)", "Y (m)", "Rotation", "Locked"}

// ExportSchedule writes the cabinet schedule and room summary to an xlsx workbook.
func ExportSchedule(path string, l model.Layout, ppu float64) error {
	if err := checkRoom(l); err != nil {
		return err
	}
	if ppu <= 0 {
		ppu = model.DefaultPixelsPerUnit
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(ScheduleHeaders))
	for i, h := range ScheduleHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ScheduleSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ScheduleHeaders))
	if err := f.SetCellStyle(ScheduleSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range l.Cabinets {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			c.Name,
			c.Width,
			c.Height,
			c.Color,
			round2(c.X / ppu),
			round2(c.Y / ppu),
			c.Rotation,
			c.Locked,
		}
		if err := f.SetSheetRow(ScheduleSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write cabinet %q: %w", c.Name, err)
		}
		if _, ok := ParseHexColor(c.Color); ok {
			swatch, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{strings.ToUpper(normalizeHex(c.Color))}, Pattern: 1},
			})
			if err == nil {
				colorCell, _ := excelize.CoordinatesToCellName(4, row)
				_ = f.SetCellStyle(ScheduleSheet, colorCell, colorCell, swatch)
			}
		}
	}
	_ = f.SetColWidth(ScheduleSheet, "A", "A", 24)
	_ = f.SetColWidth(ScheduleSheet, "B", lastCol, 12)

	if _, err := f.NewSheet(RoomSheet); err != nil {
		return fmt.Errorf("failed to create room sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Title", l.Title},
		{"Width (m)", l.Room.Width},
		{"Height (m)", l.Room.Height},
		{"Grid (m)", l.Room.GridSize},
		{"Cabinets", len(l.Cabinets)},
		{"Floor used (%)", round2(floorUsage(l))},
	}
	for i, values := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(RoomSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write room summary: %w", err)
		}
	}
	_ = f.SetColWidth(RoomSheet, "A", "A", 18)

	return f.SaveAs(path)
}

// normalizeHex expands "#rgb" to "#rrggbb".
func normalizeHex(s string) string {
	c, _ := ParseHexColor(s)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
