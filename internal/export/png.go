package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// maxImageSide caps the rendered image so a huge room cannot exhaust memory.
const maxImageSide = 8192

var (
	roomBackground = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	gridColor      = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	roomBorder     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	cabinetBorder  = color.RGBA{R: 30, G: 30, B: 30, A: 255}
)

// RenderImage rasterizes the layout at scale image pixels per room pixel.
// Cabinets are painted in collection order so later ones appear on top.
func RenderImage(l model.Layout, ppu, scale float64) (*image.RGBA, error) {
	if err := checkRoom(l); err != nil {
		return nil, err
	}
	if ppu <= 0 {
		ppu = model.DefaultPixelsPerUnit
	}
	if scale <= 0 {
		scale = 1
	}
	pxPerMeter := ppu * scale
	w := int(math.Ceil(l.Room.Width * pxPerMeter))
	h := int(math.Ceil(l.Room.Height * pxPerMeter))
	if w > maxImageSide || h > maxImageSide {
		return nil, fmt.Errorf("image too large: %dx%d pixels", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(roomBackground), image.Point{}, draw.Src)

	gridStep := l.Room.GridSize * pxPerMeter
	if gridStep >= 4 {
		for x := gridStep; x < float64(w); x += gridStep {
			fillRect(img, int(x), 0, int(x)+1, h, gridColor)
		}
		for y := gridStep; y < float64(h); y += gridStep {
			fillRect(img, 0, int(y), w, int(y)+1, gridColor)
		}
	}

	for _, pc := range placeCabinets(l, ppu) {
		fill, _ := ParseHexColor(pc.Record.Color)
		pts := scaleOutline(pc.Outline, pxPerMeter)
		fillPolygon(img, pts, fill)
		strokePolygon(img, pts, 1.5, cabinetBorder)
		drawLabel(img, pc.Record.Name, pc.Center.X*pxPerMeter, pc.Center.Y*pxPerMeter, textColorFor(fill))
	}

	strokePolygon(img, []model.Point2D{{X: 0, Y: 0}, {X: float64(w), Y: 0}, {X: float64(w), Y: float64(h)}, {X: 0, Y: float64(h)}}, 2, roomBorder)
	return img, nil
}

// ExportPNG renders the layout and writes it as a PNG file.
func ExportPNG(path string, l model.Layout, ppu, scale float64) error {
	img, err := RenderImage(l, ppu, scale)
	if err != nil {
		return err
	}
	return WritePNG(path, img)
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}

func scaleOutline(o model.Outline, s float64) []model.Point2D {
	pts := make([]model.Point2D, len(o))
	for i, p := range o {
		pts[i] = model.Point2D{X: p.X * s, Y: p.Y * s}
	}
	return pts
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Over)
}

// fillPolygon rasterizes within the polygon's bounding box, clipped to img.
func fillPolygon(img *image.RGBA, pts []model.Point2D, c color.Color) {
	if len(pts) < 3 {
		return
	}
	min, max := model.Outline(pts).BoundingBox()
	box := image.Rect(int(math.Floor(min.X)), int(math.Floor(min.Y)), int(math.Ceil(max.X)), int(math.Ceil(max.Y))).
		Intersect(img.Bounds())
	if box.Empty() {
		return
	}
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	r := vector.NewRasterizer(box.Dx(), box.Dy())
	r.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	r.ClosePath()
	r.Draw(img, box, image.NewUniform(c), image.Point{})
}

// strokePolygon draws each edge of the closed polygon as a quad of the given width.
func strokePolygon(img *image.RGBA, pts []model.Point2D, width float64, c color.Color) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*width/2, dx/length*width/2
		fillPolygon(img, []model.Point2D{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}, c)
	}
}

// drawLabel writes text centered on (cx, cy) using the fixed 7x13 face.
func drawLabel(img *image.RGBA, text string, cx, cy float64, c color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(text).Round()
	d.Dot = fixed.P(int(cx)-width/2, int(cy)+face.Ascent/2)
	d.DrawString(text)
}
