package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/export"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height\nGalaga,0.7,0.9\nJoust,0.7,0.9\n", ','},
		{"semicolon", "Name;Width;Height\nGalaga;0.7;0.9\nJoust;0.7;0.9\n", ';'},
		{"tab", "Name\tWidth\tHeight\nGalaga\t0.7\t0.9\n", '\t'},
		{"pipe", "Name|Width|Height\nGalaga|0.7|0.9\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Name", "Width", "Height", "Color", "Qty"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Color: 3, Quantity: 4}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_ReorderedAndAliased(t *testing.T) {
	mapping, ok := DetectColumns([]string{" DEPTH ", "Game", "w", "Colour"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 1, Width: 2, Height: 0, Color: 3, Quantity: -1}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Galaga", "0.7", "0.9"})
	if ok {
		t.Error("expected no header")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Color: 3, Quantity: 4}
	if mapping != want {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Height,Color,Quantity\nGalaga,0.7,0.9,#ff0000,2\nPinball,0.75,1.5,#00f,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Cabinets) != 3 {
		t.Fatalf("expected 3 cabinets, got %d", len(result.Cabinets))
	}

	want := model.CabinetTemplate{Name: "Galaga", Width: 0.7, Height: 0.9, Color: "#ff0000"}
	if result.Cabinets[0] != want || result.Cabinets[1] != want {
		t.Errorf("expected two copies of %+v, got %+v", want, result.Cabinets[:2])
	}
	if result.Cabinets[2].Color != "#00f" {
		t.Errorf("expected short hex color kept, got %q", result.Cabinets[2].Color)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Galaga,0.7,0.9\nJoust,0.8,1\n"), ',')

	if len(result.Cabinets) != 2 {
		t.Fatalf("expected 2 cabinets, got %d (errors: %v)", len(result.Cabinets), result.Errors)
	}
	if result.Cabinets[1].Name != "Joust" || result.Cabinets[1].Width != 0.8 {
		t.Errorf("unexpected cabinet %+v", result.Cabinets[1])
	}
	if result.Cabinets[0].Color != model.DefaultCabinetColor {
		t.Errorf("expected default color, got %q", result.Cabinets[0].Color)
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Machine,Breite,Tiefe\nGalaga,0.7,0.9\n"), ',')

	if len(result.Cabinets) != 1 {
		t.Fatalf("expected 1 cabinet, got %d (errors: %v)", len(result.Cabinets), result.Errors)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	data := strings.Join([]string{
		"Name,Width,Height,Qty",
		"Good,1,1,1",
		"NoWidth,,1,1",
		"BadWidth,wide,1,1",
		"Negative,-1,1,1",
		"BadQty,1,1,zero",
		"ZeroQty,1,1,0",
		"",
		"AlsoGood,2,1,",
	}, "\n")
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Cabinets) != 2 {
		t.Fatalf("expected 2 cabinets, got %d", len(result.Cabinets))
	}
	if len(result.Errors) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 3:") {
		t.Errorf("expected error to name line 3, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyNameAndBadColor(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Height,Color\n,1,1,purple\n"), ',')

	if len(result.Cabinets) != 1 {
		t.Fatalf("expected 1 cabinet, got %d", len(result.Cabinets))
	}
	c := result.Cabinets[0]
	if c.Name != model.DefaultCabinetName {
		t.Errorf("expected default name, got %q", c.Name)
	}
	if c.Color != model.DefaultCabinetColor {
		t.Errorf("expected default color, got %q", c.Color)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown color 'purple'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected color warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_QuantityCapped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Height,Qty\nDefender,1,1,500\n"), ',')

	if len(result.Cabinets) != MaxQuantity {
		t.Fatalf("expected %d cabinets, got %d", MaxQuantity, len(result.Cabinets))
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Color\nGalaga,1,#fff\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("expected missing Height error, got %v", result.Errors)
	}
	if len(result.Cabinets) != 0 {
		t.Errorf("expected no cabinets, got %d", len(result.Cabinets))
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Height\n"), ',')

	if len(result.Errors) == 0 {
		t.Error("expected an error for a file without rows")
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cabinets.csv")
	if err := os.WriteFile(path, []byte("Name;Width;Height\nGalaga;0.7;0.9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Cabinets) != 1 {
		t.Fatalf("expected 1 cabinet, got %d", len(result.Cabinets))
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_FileErrors(t *testing.T) {
	if r := ImportCSV(filepath.Join(t.TempDir(), "missing.csv")); len(r.Errors) == 0 {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if r := ImportCSV(path); len(r.Errors) == 0 || r.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", r.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cabinets.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Cabinet", "Width", "Depth", "Qty"},
		{"Outrun", 1.5, 2, 1},
		{"Robotron", 0.7, 0.9, 2},
	})

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Cabinets) != 3 {
		t.Fatalf("expected 3 cabinets, got %d", len(result.Cabinets))
	}
	if result.Cabinets[0].Name != "Outrun" || result.Cabinets[0].Height != 2 {
		t.Errorf("unexpected first cabinet %+v", result.Cabinets[0])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportExcel_ExportedSchedule(t *testing.T) {
	layout := model.Layout{
		Title: "Round Trip",
		Room:  model.DefaultRoom(),
		Cabinets: []model.CabinetRecord{
			{Name: "Galaga", Width: 0.7, Height: 0.9, Color: "#ff0000", X: 100, Y: 200, Rotation: 90},
			{Name: "Tempest", Width: 0.75, Height: 1, Color: "#123456", Locked: true},
		},
	}
	path := filepath.Join(t.TempDir(), "Round Trip_Schedule.xlsx")
	if err := export.ExportSchedule(path, layout, model.DefaultPixelsPerUnit); err != nil {
		t.Fatalf("ExportSchedule failed: %v", err)
	}

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Cabinets) != 2 {
		t.Fatalf("expected 2 cabinets, got %d", len(result.Cabinets))
	}
	for i, rec := range layout.Cabinets {
		want := model.CabinetTemplate{Name: rec.Name, Width: rec.Width, Height: rec.Height, Color: rec.Color}
		if result.Cabinets[i] != want {
			t.Errorf("cabinet %d: expected %+v, got %+v", i, want, result.Cabinets[i])
		}
	}
}
