// Package importer reads cabinet lists from CSV and XLSX files. Columns are
// found by header name when there is a header and by position otherwise.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// MaxQuantity caps the copies a single row may request.
const MaxQuantity = 100

// ImportResult is what a list import produced. Rows with a quantity above one
// appear that many times in Cabinets.
type ImportResult struct {
	Cabinets []model.CabinetTemplate
	Errors   []string
	Warnings []string
}

// ColumnMapping holds the column index of each field, -1 when absent.
type ColumnMapping struct {
	Name     int
	Width    int
	Height   int
	Color    int
	Quantity int
}

// Lowercase header spellings accepted for each field.
var headerAliases = map[string][]string{
	"name":     {"name", "label", "cabinet", "game", "title", "description", "desc", "item"},
	"width":    {"width", "w", "width (m)", "length", "len"},
	"height":   {"height", "h", "height (m)", "depth", "d", "depth (m)"},
	"color":    {"color", "colour", "hex", "fill"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs"},
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// DetectCSVDelimiter picks comma, semicolon, tab or pipe, whichever splits
// the most lines into the same number of columns as the first line. Comma
// wins when nothing splits the first line at all.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		cols := len(records[0])
		consistent := 0
		for _, r := range records {
			if len(r) == cols {
				consistent++
			}
		}
		// Consistency dominates; column count breaks ties.
		if score := consistent*10 + cols; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// DetectColumns reads row as a header. If no cell names a known field, the
// positional order name, width, depth, color, quantity is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Width: -1, Height: -1, Color: -1, Quantity: -1}
	slots := map[string]*int{
		"name":     &mapping.Name,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"color":    &mapping.Color,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Width: 1, Height: 2, Color: 3, Quantity: 4}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a cabinet template and its quantity from a row.
// Returns the template, quantity, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.CabinetTemplate, int, string, []string) {
	var warnings []string

	name := getCell(row, mapping.Name)
	if name == "" {
		name = model.DefaultCabinetName
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Missing width value", rowLabel), nil
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}

	if width <= 0 || height <= 0 {
		return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Width and height must be positive", rowLabel), nil
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return model.CabinetTemplate{}, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		if qty > MaxQuantity {
			warnings = append(warnings, fmt.Sprintf("%s: Quantity %d capped at %d", rowLabel, qty, MaxQuantity))
			qty = MaxQuantity
		}
	}

	color := getCell(row, mapping.Color)
	switch {
	case color == "":
		color = model.DefaultCabinetColor
	case !hexColor.MatchString(color):
		warnings = append(warnings, fmt.Sprintf("%s: Unknown color '%s', defaulting to %s", rowLabel, color, model.DefaultCabinetColor))
		color = model.DefaultCabinetColor
	}

	return model.CabinetTemplate{Name: name, Width: width, Height: height, Color: color}, qty, "", warnings
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// failed is a result carrying a single file-level error.
func failed(format string, args ...any) ImportResult {
	return ImportResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// ImportCSV reads a cabinet list from a CSV file with a sniffed delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return failed("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return failed("File is empty")
	}

	delim := DetectCSVDelimiter(data)
	var warnings []string
	if delim != ',' {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimiterNames[delim]))
	}
	records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
	if err != nil {
		return failed("Cannot read CSV: %v", err)
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader reads a cabinet list from r using delim.
func ImportCSVFromReader(r io.Reader, delim rune) ImportResult {
	records, err := newCSVReader(r, delim).ReadAll()
	if err != nil {
		return failed("Cannot read CSV: %v", err)
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel reads the first sheet of a workbook. A schedule written by
// export.ExportSchedule reads back through here.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return failed("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return failed("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return failed("Cannot read Excel data: %v", err)
	}
	return importFromRows(rows, "Row", nil)
}

func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// A non-numeric width in the first row is an unrecognized header
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		tmpl, qty, errMsg, warnings := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		for n := 0; n < qty; n++ {
			result.Cabinets = append(result.Cabinets, tmpl)
		}
	}

	if len(result.Cabinets) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No cabinet rows found")
	}

	return result
}
