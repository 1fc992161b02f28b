package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each cabinet label's QR code.
type LabelInfo struct {
	Room     string  `json:"room"`
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Width    float64 `json:"width_m"`
	Height   float64 `json:"height_m"`
	X        float64 `json:"x_m"`
	Y        float64 `json:"y_m"`
	Rotation float64 `json:"rotation"`
	Color    string  `json:"color"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
	swatchSize      = 3.0  // mm
)

// CollectLabelInfos returns one label per cabinet in collection order,
// with positions converted to meters.
func CollectLabelInfos(l model.Layout, ppu float64) []LabelInfo {
	if ppu <= 0 {
		ppu = model.DefaultPixelsPerUnit
	}
	labels := make([]LabelInfo, 0, len(l.Cabinets))
	for i, c := range l.Cabinets {
		labels = append(labels, LabelInfo{
			Room:     l.Title,
			Index:    i + 1,
			Name:     c.Name,
			Width:    c.Width,
			Height:   c.Height,
			X:        c.X / ppu,
			Y:        c.Y / ppu,
			Rotation: c.Rotation,
			Color:    c.Color,
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per cabinet. Labels
// are laid out on a standard label sheet (Avery 5160, 3 x 10 on US Letter).
func ExportLabels(path string, l model.Layout, ppu float64) error {
	labels := CollectLabelInfos(l, ppu)
	if len(labels) == 0 {
		return fmt.Errorf("no cabinets to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Color swatch next to the name
	c, _ := ParseHexColor(info.Color)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetDrawColor(80, 80, 80)
	pdf.Rect(textX, y+labelPadding+0.75, swatchSize, swatchSize, "FD")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+swatchSize+1, y+labelPadding)
	nameW := textW - swatchSize - 1
	name := tr(info.Name)
	if pdf.GetStringWidth(name) > nameW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > nameW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(nameW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.2f x %.2f m", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pos := fmt.Sprintf("#%d @ (%.2f, %.2f) m", info.Index, info.X, info.Y)
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	if info.Rotation != 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Rotated %.0f\xb0", info.Rotation), "", 0, "L", false, 0, "")
	}

	if info.Room != "" {
		pdf.SetXY(textX, y+labelHeight-labelPadding-3)
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetTextColor(140, 140, 140)
		pdf.CellFormat(textW, 3, tr(info.Room), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
