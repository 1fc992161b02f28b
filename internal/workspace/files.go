package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/export"
	"github.com/piwi3910/ArcadeLayout/internal/importer"
	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
)

// ErrNothingImported is returned when a cabinet list yields no cabinets.
var ErrNothingImported = errors.New("no cabinets imported")

// ─── Layout and cabinet files ──────────────────────────────

// ExportLayout writes the session to <title>_Layout.json inside dir and
// returns the file path.
func (w *Workspace) ExportLayout(dir string) (string, error) {
	layout := w.Session.Snapshot()
	path := filepath.Join(dir, project.ExportFilename(layout.Title, project.SuffixLayout))
	if err := project.WriteLayout(path, layout); err != nil {
		return "", w.fail("export_layout", err)
	}
	w.rememberLayout(path)
	w.info("export_layout", fmt.Sprintf("Room %q exported successfully!", layout.Title))
	return path, nil
}

// ImportLayout replaces the session with a layout file. Nothing changes
// unless the whole file decodes and validates.
func (w *Workspace) ImportLayout(path string) error {
	layout, err := project.ReadLayout(path)
	if err != nil {
		if errors.Is(err, project.ErrMalformed) {
			return w.fail("import_layout", fmt.Errorf("invalid JSON layout file: %w", err))
		}
		return w.fail("import_layout", err)
	}
	if err := w.Session.ReplaceLayout(layout); err != nil {
		return w.fail("import_layout", err)
	}
	w.rememberLayout(path)
	applog.WithOperation(w.log, "import_layout").Info("layout imported",
		"path", path, "cabinets", len(layout.Cabinets))
	w.changed()
	w.info("import_layout", "Layout imported successfully!")
	return nil
}

// ExportCabinet writes the selected cabinet to <name>_Cabinet.json inside dir.
func (w *Workspace) ExportCabinet(dir string) (string, error) {
	c, err := w.selected("export_cabinet", "export it")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, project.CabinetFilename(c.Name))
	if err := project.WriteCabinet(path, c.Template()); err != nil {
		return "", w.fail("export_cabinet", err)
	}
	w.info("export_cabinet", fmt.Sprintf("Cabinet %q exported.", c.Name))
	return path, nil
}

// ImportCabinet reads a cabinet file and places it at the first free slot.
func (w *Workspace) ImportCabinet(path string) (model.Cabinet, error) {
	t, err := project.ReadCabinet(path)
	if err != nil {
		if errors.Is(err, project.ErrMalformed) {
			return model.Cabinet{}, w.fail("import_cabinet",
				fmt.Errorf("invalid cabinet file, it should contain name, width, height and color: %w", err))
		}
		return model.Cabinet{}, w.fail("import_cabinet", err)
	}
	c := w.Session.PlaceFirstFree(t)
	applog.WithOperation(w.log, "import_cabinet").Info("cabinet placed", "name", c.Name, "x", c.X, "y", c.Y)
	w.changed()
	w.info("import_cabinet", "Cabinet imported successfully!")
	return c, nil
}

// ImportCabinetList places every cabinet from a CSV or XLSX list, each at
// the first free slot. Row problems are reported together at the end.
func (w *Workspace) ImportCabinetList(path string) (importer.ImportResult, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	default:
		result = importer.ImportCSV(path)
	}

	for _, t := range result.Cabinets {
		w.Session.PlaceFirstFree(t)
	}
	applog.WithOperation(w.log, "import_list").Info("cabinet list imported",
		"path", path, "placed", len(result.Cabinets), "errors", len(result.Errors), "warnings", len(result.Warnings))
	if len(result.Cabinets) > 0 {
		w.changed()
	}

	if len(result.Cabinets) == 0 {
		return result, w.fail("import_list", fmt.Errorf("%w:\n%s", ErrNothingImported, strings.Join(result.Errors, "\n")))
	}
	msg := fmt.Sprintf("Imported %d cabinet(s).", len(result.Cabinets))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nSkipped rows:\n%s", strings.Join(result.Errors, "\n"))
	}
	w.info("import_list", msg)
	return result, nil
}

// ─── Exports ───────────────────────────────────────────────

// ExportImage rasterizes the room to <title>_Layout.png inside dir.
func (w *Workspace) ExportImage(dir string) (string, error) {
	if w.Rasterizer == nil {
		return "", w.fail("export_png", ErrRasterizerUnavailable)
	}
	layout := w.Session.Snapshot()
	img, err := w.Rasterizer.Rasterize(layout, w.Session.Viewport.PixelsPerUnit, w.Config.ExportImageScale)
	if err != nil {
		return "", w.fail("export_png", fmt.Errorf("failed to render image: %w", err))
	}
	path := filepath.Join(dir, project.ExportFilename(layout.Title, project.SuffixImage))
	if err := export.WritePNG(path, img); err != nil {
		return "", w.fail("export_png", err)
	}
	w.info("export_png", fmt.Sprintf("Room %q exported as PNG!", layout.Title))
	return path, nil
}

// ExportPDF writes the floor plan and schedule to <title>_Layout.pdf.
func (w *Workspace) ExportPDF(dir string) (string, error) {
	return w.exportFile("export_pdf", dir, project.SuffixPDF, "PDF", export.ExportPDF)
}

// ExportDXF writes the floor plan to <title>_Layout.dxf.
func (w *Workspace) ExportDXF(dir string) (string, error) {
	return w.exportFile("export_dxf", dir, project.SuffixDXF, "DXF", export.ExportDXF)
}

// ExportSchedule writes the cabinet schedule to <title>_Schedule.xlsx.
func (w *Workspace) ExportSchedule(dir string) (string, error) {
	return w.exportFile("export_schedule", dir, project.SuffixSchedule, "spreadsheet", export.ExportSchedule)
}

// ExportLabels writes QR cabinet labels to <title>_Labels.pdf.
func (w *Workspace) ExportLabels(dir string) (string, error) {
	return w.exportFile("export_labels", dir, project.SuffixLabels, "labels", export.ExportLabels)
}

func (w *Workspace) exportFile(op, dir, suffix, kind string, write func(string, model.Layout, float64) error) (string, error) {
	layout := w.Session.Snapshot()
	path := filepath.Join(dir, project.ExportFilename(layout.Title, suffix))
	if err := write(path, layout, w.Session.Viewport.PixelsPerUnit); err != nil {
		return "", w.fail(op, fmt.Errorf("failed to export %s: %w", kind, err))
	}
	w.info(op, fmt.Sprintf("Room %q exported as %s!", layout.Title, kind))
	return path, nil
}
