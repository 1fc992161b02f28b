package export

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	footerHeight = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a floor plan page followed by a cabinet schedule page.
func ExportPDF(path string, l model.Layout, ppu float64) error {
	if err := checkRoom(l); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(l.Title, true)

	pdf.AddPage()
	renderFloorPlan(pdf, l, placeCabinets(l, ppu))

	pdf.AddPage()
	renderSchedulePage(pdf, l, ppu)

	return pdf.OutputFileAndClose(path)
}

// renderFloorPlan draws the room, its grid and every cabinet scaled to fit the page.
func renderFloorPlan(pdf *fpdf.Fpdf, l model.Layout, cabinets []placedCabinet) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := tr(fmt.Sprintf("%s (%.2f x %.2f m)", l.Title, l.Room.Width, l.Room.Height))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Cabinets: %d | Grid: %.2f m | Floor used: %.1f%%",
		len(l.Cabinets), l.Room.GridSize, floorUsage(l))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - footerHeight
	scale := math.Min(drawWidth/l.Room.Width, drawHeight/l.Room.Height)

	canvasW := l.Room.Width * scale
	canvasH := l.Room.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(250, 250, 250)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Grid lines, skipped when closer than 2 mm on paper
	if step := l.Room.GridSize * scale; step >= 2 {
		pdf.SetDrawColor(215, 215, 215)
		pdf.SetLineWidth(0.1)
		for x := step; x < canvasW-1e-6; x += step {
			pdf.Line(offsetX+x, offsetY, offsetX+x, offsetY+canvasH)
		}
		for y := step; y < canvasH-1e-6; y += step {
			pdf.Line(offsetX, offsetY+y, offsetX+canvasW, offsetY+y)
		}
	}

	for _, pc := range cabinets {
		col, _ := ParseHexColor(pc.Record.Color)
		points := make([]fpdf.PointType, len(pc.Outline))
		for i, p := range pc.Outline {
			points[i] = fpdf.PointType{X: offsetX + p.X*scale, Y: offsetY + p.Y*scale}
		}
		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(points, "FD")

		cw := pc.Record.Width * scale
		ch := pc.Record.Height * scale
		if cw > 8 && ch > 5 {
			tc := textColorFor(col)
			pdf.SetFont("Helvetica", "", labelFontSize(cw, ch))
			pdf.SetTextColor(int(tc.R), int(tc.G), int(tc.B))
			label := tr(pc.Record.Name)
			labelW := pdf.GetStringWidth(label)
			if labelW < math.Max(cw, ch) {
				cx := offsetX + pc.Center.X*scale
				cy := offsetY + pc.Center.Y*scale
				pdf.SetXY(cx-labelW/2, cy-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)

	drawDimensionAnnotations(pdf, l.Room, offsetX, offsetY, canvasW, canvasH)
	drawFooter(pdf)
}

// drawDimensionAnnotations adds width and height labels outside the room rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, room model.Room, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := formatMeters(room.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := formatMeters(room.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSchedulePage lists every cabinet with its size, position and state.
func renderSchedulePage(pdf *fpdf.Fpdf, l model.Layout, ppu float64) {
	if ppu <= 0 {
		ppu = model.DefaultPixelsPerUnit
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cabinet Schedule", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{12, 70, 28, 28, 28, 28, 28, 20, 25}
	headers := []string{"#", "Name", "Width", "Height", "X", "Y", "Rotation", "Locked", "Color"}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, h := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	if len(l.Cabinets) == 0 {
		pdf.SetXY(marginLeft, y+2)
		pdf.CellFormat(100, 6, "No cabinets placed.", "", 0, "L", false, 0, "")
	}

	for i, c := range l.Cabinets {
		if y+6 > pageHeight-marginBottom-footerHeight {
			drawFooter(pdf)
			pdf.AddPage()
			y = marginTop
			header()
		}
		locked := "no"
		if c.Locked {
			locked = "yes"
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			c.Name,
			formatMeters(c.Width),
			formatMeters(c.Height),
			formatMeters(c.X / ppu),
			formatMeters(c.Y / ppu),
			fmt.Sprintf("%.0f°", c.Rotation),
			locked,
			"",
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, tr(cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		col, _ := ParseHexColor(c.Color)
		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.Rect(xPos-colWidths[len(colWidths)-1]+4, y+1, colWidths[len(colWidths)-1]-8, 4, "F")
		y += 6
	}
	drawFooter(pdf)
}

func drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := "Generated by ArcadeLayout on " + time.Now().Format("2006-01-02")
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 9
	case minDim > 15:
		return 7
	default:
		return 5
	}
}

// floorUsage returns the share of the room covered by cabinets, in percent.
func floorUsage(l model.Layout) float64 {
	total := l.Room.Width * l.Room.Height
	if total <= 0 {
		return 0
	}
	used := 0.0
	for _, c := range l.Cabinets {
		used += c.Width * c.Height
	}
	return used / total * 100
}
