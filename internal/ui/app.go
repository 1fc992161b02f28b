// Package ui provides the ArcadeLayout desktop UI: the room canvas, the
// side panels and the menus. All actions go through workspace.Workspace.
package ui

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fynestorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/ArcadeLayout/internal/geometry"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
	"github.com/piwi3910/ArcadeLayout/internal/ui/widgets"
	"github.com/piwi3910/ArcadeLayout/internal/workspace"
)

// App holds the window, the workspace and the widgets that mirror it.
type App struct {
	app    fyne.App
	window fyne.Window
	ws     *workspace.Workspace
	theme  *ArcadeTheme
	ctx    context.Context

	room   *widgets.RoomCanvas
	status *widget.Label

	// Room panel
	titleEntry *widget.Entry
	roomWidth  *widget.Entry
	roomHeight *widget.Entry
	roomGrid   *widget.Entry

	// Details panel
	details      *fyne.Container
	detailName   *widget.Entry
	detailWidth  *widget.Entry
	detailHeight *widget.Entry
	detailColor  *widget.Entry
	detailRot    *widget.Entry
	detailLock   *widget.Check

	// Saved slots
	advanced     *fyne.Container
	roomNames    []string
	cabinetNames []string
	roomList     *widget.List
	cabinetList  *widget.List
	pickedRoom   string
	pickedCab    string
}

// NewApp binds ws to window: workspace dialogs go through fyne and every
// workspace change refreshes the widgets.
func NewApp(application fyne.App, window fyne.Window, ws *workspace.Workspace) *App {
	a := &App{
		app:    application,
		window: window,
		ws:     ws,
		theme:  NewArcadeTheme(ws.Config.DarkMode),
		ctx:    context.Background(),
	}
	ws.Prompter = dialogPrompter{window: window}
	ws.OnChange = a.refresh
	application.Settings().SetTheme(a.theme)
	return a
}

// SetupMenus creates the native menu bar and keyboard shortcuts.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reset Room", a.ws.ResetRoom),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Layout...", a.importLayout),
		fyne.NewMenuItem("Export Layout...", func() { a.exportTo(a.ws.ExportLayout) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Cabinet...", a.importCabinet),
		fyne.NewMenuItem("Export Cabinet...", func() { a.exportTo(a.ws.ExportCabinet) }),
		fyne.NewMenuItem("Import Cabinet List (CSV/Excel)...", a.importCabinetList),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { a.exportTo(a.ws.ExportImage) }),
		fyne.NewMenuItem("Export PDF...", func() { a.exportTo(a.ws.ExportPDF) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportTo(a.ws.ExportDXF) }),
		fyne.NewMenuItem("Export Schedule (Excel)...", func() { a.exportTo(a.ws.ExportSchedule) }),
		fyne.NewMenuItem("Export QR Labels...", func() { a.exportTo(a.ws.ExportLabels) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup Saved Data...", a.exportBackup),
		fyne.NewMenuItem("Restore Saved Data...", a.importBackup),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Duplicate Cabinet", func() { _, _ = a.ws.DuplicateSelected() }),
		fyne.NewMenuItem("Rotate Cabinet 90°", a.rotateQuarter),
		fyne.NewMenuItem("Lock/Unlock Cabinet", func() { _, _ = a.ws.ToggleLockSelected() }),
		fyne.NewMenuItem("Delete Cabinet", a.ws.DeleteSelected),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Check Overlaps", func() { a.ws.CheckOverlaps() }),
	)

	darkItem := fyne.NewMenuItem("Dark Mode", nil)
	darkItem.Checked = a.theme.Dark()
	darkItem.Action = func() {
		dark := !a.theme.Dark()
		a.theme.SetDark(dark)
		a.app.Settings().SetTheme(a.theme)
		a.ws.SetDarkMode(dark)
		darkItem.Checked = dark
		a.window.MainMenu().Refresh()
	}
	simpleItem := fyne.NewMenuItem("Simple Mode", nil)
	simpleItem.Checked = a.ws.Config.SimpleMode
	simpleItem.Action = func() {
		simple := !a.ws.Config.SimpleMode
		a.ws.SetSimpleMode(simple)
		simpleItem.Checked = simple
		a.window.MainMenu().Refresh()
		a.refresh()
	}
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { a.ws.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { a.ws.ZoomOut() }),
		fyne.NewMenuItem("Toggle Snapping", func() { a.ws.ToggleSnap() }),
		fyne.NewMenuItemSeparator(),
		darkItem,
		simpleItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))

	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { _, _ = a.ws.DuplicateSelected() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			a.ws.DeleteSelected()
		case fyne.KeyR:
			a.rotateQuarter()
		case fyne.KeyEscape:
			a.ws.Deselect()
		}
	})
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About ArcadeLayout",
		"ArcadeLayout — Arcade Floor Planner\n\n"+
			"Lay out arcade cabinets in a room: drag, rotate and snap\n"+
			"cabinets without overlaps, then export plans and labels.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.room = widgets.NewRoomCanvas(a.ws.Session)
	a.room.OnPointerDown = func(x, y float64) { a.ws.PointerDown(x, y) }
	a.room.OnPointerMove = func(x, y float64) { a.ws.PointerMove(x, y) }
	a.room.OnPointerUp = a.ws.PointerUp
	a.room.OnZoom = func(in bool) {
		if in {
			a.ws.ZoomIn()
		} else {
			a.ws.ZoomOut()
		}
	}
	a.status = widget.NewLabel("")

	scroll := container.NewScroll(container.NewPadded(a.room))
	content := container.NewBorder(
		a.buildToolbar(),
		a.status,
		container.NewVScroll(a.buildRoomPanel()),
		container.NewVScroll(a.buildDetailsPanel()),
		scroll,
	)
	a.refresh()
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// ─── Toolbar ───────────────────────────────────────────────

func (a *App) buildToolbar() fyne.CanvasObject {
	return container.NewHBox(
		newToolButton(theme.ZoomInIcon(), "Zoom in", func() { a.ws.ZoomIn() }),
		newToolButton(theme.ZoomOutIcon(), "Zoom out", func() { a.ws.ZoomOut() }),
		newToolButton(theme.GridIcon(), "Toggle grid and neighbor snapping", func() { a.ws.ToggleSnap() }),
		widget.NewSeparator(),
		newToolButton(theme.ContentCopyIcon(), "Duplicate selected cabinet", func() { _, _ = a.ws.DuplicateSelected() }),
		newToolButton(theme.ViewRefreshIcon(), "Rotate selected cabinet 90°", a.rotateQuarter),
		newToolButton(theme.DeleteIcon(), "Delete selected cabinet", a.ws.DeleteSelected),
		widget.NewSeparator(),
		newToolButton(theme.WarningIcon(), "Check for overlapping cabinets", func() { a.ws.CheckOverlaps() }),
	)
}

// ─── Room Panel ────────────────────────────────────────────

func (a *App) buildRoomPanel() fyne.CanvasObject {
	a.titleEntry = widget.NewEntry()
	a.titleEntry.OnSubmitted = func(s string) { a.ws.SetTitle(s) }
	a.roomWidth = widget.NewEntry()
	a.roomHeight = widget.NewEntry()
	a.roomGrid = widget.NewEntry()

	applyRoom := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		a.ws.SetTitle(a.titleEntry.Text)
		w, errW := parseFloat(a.roomWidth.Text)
		h, errH := parseFloat(a.roomHeight.Text)
		g, errG := parseFloat(a.roomGrid.Text)
		if errW != nil || errH != nil || errG != nil {
			dialog.ShowError(fmt.Errorf("room width, height and grid size must be numbers"), a.window)
			return
		}
		_ = a.ws.UpdateRoom(model.Room{Width: w, Height: h, GridSize: g})
	})

	roomCard := widget.NewCard("Room", "", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Title", a.titleEntry),
			widget.NewFormItem("Width (m)", a.roomWidth),
			widget.NewFormItem("Depth (m)", a.roomHeight),
			widget.NewFormItem("Grid (m)", a.roomGrid),
		),
		applyRoom,
	))

	return container.NewVBox(roomCard, a.buildAddCabinetCard(), a.buildSavedPanel())
}

func (a *App) buildAddCabinetCard() fyne.CanvasObject {
	name := widget.NewEntry()
	name.SetText("New Cabinet")
	width := widget.NewEntry()
	width.SetText("0.7")
	height := widget.NewEntry()
	height.SetText("0.9")
	colorEntry := widget.NewEntry()
	colorEntry.SetText("#3366ff")

	add := widget.NewButtonWithIcon("Add Cabinet", theme.ContentAddIcon(), func() {
		w, errW := parseFloat(width.Text)
		h, errH := parseFloat(height.Text)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			dialog.ShowError(fmt.Errorf("width and depth must be > 0"), a.window)
			return
		}
		a.ws.AddCabinet(model.CabinetTemplate{
			Name:   strings.TrimSpace(name.Text),
			Width:  w,
			Height: h,
			Color:  strings.TrimSpace(colorEntry.Text),
		})
	})

	return widget.NewCard("Add Cabinet", "", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Width (m)", width),
			widget.NewFormItem("Depth (m)", height),
			widget.NewFormItem("Color", a.colorField(colorEntry)),
		),
		add,
	))
}

// colorField pairs a hex entry with a color picker button.
func (a *App) colorField(entry *widget.Entry) fyne.CanvasObject {
	pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Cabinet Color", "", func(c color.Color) {
			entry.SetText(hexColor(c))
		}, a.window)
		picker.Advanced = true
		picker.Show()
	})
	return container.NewBorder(nil, nil, nil, pick, entry)
}

// ─── Saved Rooms and Cabinets ──────────────────────────────

func (a *App) buildSavedPanel() fyne.CanvasObject {
	a.roomList = widget.NewList(
		func() int { return len(a.roomNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(a.roomNames[id]) },
	)
	a.roomList.OnSelected = func(id widget.ListItemID) { a.pickedRoom = a.roomNames[id] }

	a.cabinetList = widget.NewList(
		func() int { return len(a.cabinetNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(a.cabinetNames[id]) },
	)
	a.cabinetList.OnSelected = func(id widget.ListItemID) { a.pickedCab = a.cabinetNames[id] }

	rooms := widget.NewCard("Saved Rooms", "", container.NewBorder(nil,
		container.NewGridWithColumns(3,
			widget.NewButton("Save", func() { _ = a.ws.SaveRoom(a.ctx) }),
			widget.NewButton("Load", func() {
				if a.pickedRoom != "" {
					a.ws.LoadRoom(a.ctx, a.pickedRoom)
				}
			}),
			widget.NewButton("Delete", func() {
				if a.pickedRoom != "" {
					a.ws.DeleteRoom(a.ctx, a.pickedRoom)
				}
			}),
		),
		nil, nil, container.NewGridWrap(fyne.NewSize(220, 120), a.roomList)))

	cabinets := widget.NewCard("Saved Cabinets", "", container.NewBorder(nil,
		container.NewGridWithColumns(2,
			widget.NewButton("Place", func() {
				if a.pickedCab != "" {
					_, _ = a.ws.LoadCabinet(a.ctx, a.pickedCab)
				}
			}),
			widget.NewButton("Delete", func() {
				if a.pickedCab != "" {
					a.ws.DeleteCabinet(a.ctx, a.pickedCab)
				}
			}),
		),
		nil, nil, container.NewGridWrap(fyne.NewSize(220, 120), a.cabinetList)))

	a.advanced = container.NewVBox(rooms, cabinets)
	return a.advanced
}

// ─── Details Panel ─────────────────────────────────────────

func (a *App) buildDetailsPanel() fyne.CanvasObject {
	a.detailName = widget.NewEntry()
	a.detailWidth = widget.NewEntry()
	a.detailHeight = widget.NewEntry()
	a.detailColor = widget.NewEntry()
	a.detailRot = widget.NewEntry()
	a.detailLock = widget.NewCheck("Locked", func(on bool) {
		if c, ok := a.ws.Session.Selected(); ok && c.Locked != on {
			_, _ = a.ws.ToggleLockSelected()
		}
	})

	apply := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		w, errW := parseFloat(a.detailWidth.Text)
		h, errH := parseFloat(a.detailHeight.Text)
		if errW != nil || errH != nil {
			dialog.ShowError(fmt.Errorf("width and depth must be numbers"), a.window)
			return
		}
		_ = a.ws.UpdateSelected(model.CabinetTemplate{
			Name:   a.detailName.Text,
			Width:  w,
			Height: h,
			Color:  strings.TrimSpace(a.detailColor.Text),
		})
	})

	rotation := func(place bool) func() {
		return func() {
			deg, err := parseFloat(a.detailRot.Text)
			if err != nil {
				dialog.ShowError(fmt.Errorf("rotation must be a number of degrees"), a.window)
				return
			}
			if place {
				_, _ = a.ws.RotateAndPlaceSelected(deg)
			} else {
				_ = a.ws.RotateSelected(deg)
			}
		}
	}

	a.details = container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Name", a.detailName),
			widget.NewFormItem("Width (m)", a.detailWidth),
			widget.NewFormItem("Depth (m)", a.detailHeight),
			widget.NewFormItem("Color", a.colorField(a.detailColor)),
		),
		apply,
		widget.NewSeparator(),
		widget.NewForm(widget.NewFormItem("Rotation (°)", a.detailRot)),
		container.NewGridWithColumns(2,
			widget.NewButton("Set", rotation(false)),
			widget.NewButton("Set & Place", rotation(true)),
		),
		a.detailLock,
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { _ = a.ws.SaveCabinet(a.ctx) }),
			widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() { _, _ = a.ws.DuplicateSelected() }),
		),
	)
	return widget.NewCard("Selected Cabinet", "", a.details)
}

// ─── Refresh ───────────────────────────────────────────────

// refresh mirrors the workspace into every widget.
func (a *App) refresh() {
	if a.room == nil {
		return
	}
	s := a.ws.Session
	a.room.Refresh()

	room := s.Room()
	a.titleEntry.SetText(s.Title)
	a.roomWidth.SetText(formatFloat(room.Width))
	a.roomHeight.SetText(formatFloat(room.Height))
	a.roomGrid.SetText(formatFloat(room.GridSize))

	if c, ok := s.Selected(); ok {
		a.detailName.SetText(c.Name)
		a.detailWidth.SetText(formatFloat(c.Width))
		a.detailHeight.SetText(formatFloat(c.Height))
		a.detailColor.SetText(c.Color)
		a.detailRot.SetText(formatFloat(c.Rotation))
		a.detailLock.SetChecked(c.Locked)
		a.details.Show()
	} else {
		a.details.Hide()
	}

	if a.ws.Config.SimpleMode {
		a.advanced.Hide()
	} else {
		a.roomNames = a.ws.RoomNames(a.ctx)
		a.cabinetNames = a.ws.CabinetNames(a.ctx)
		a.roomList.UnselectAll()
		a.cabinetList.UnselectAll()
		a.pickedRoom, a.pickedCab = "", ""
		a.roomList.Refresh()
		a.cabinetList.Refresh()
		a.advanced.Show()
	}

	snap := "off"
	if s.SnapEnabled {
		snap = "on"
	}
	a.status.SetText(fmt.Sprintf("%s — %d cabinet(s) | zoom %.0f%% | snapping %s",
		s.Title, s.Len(), s.Viewport.Zoom*100, snap))
}

// ─── Actions ───────────────────────────────────────────────

// rotateQuarter turns the selection by 90° and settles it like the property panel does.
func (a *App) rotateQuarter() {
	c, ok := a.ws.Session.Selected()
	if !ok {
		return
	}
	_, _ = a.ws.RotateAndPlaceSelected(geometry.NormalizeDegrees(c.Rotation + 90))
}

// exportTo asks for a folder and runs export into it.
func (a *App) exportTo(export func(dir string) (string, error)) {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		_, _ = export(dir.Path())
	}, a.window)
}

// openFile asks for a file with one of exts and passes its path to fn.
func (a *App) openFile(exts []string, fn func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		fn(path)
	}, a.window)
	d.SetFilter(fynestorage.NewExtensionFileFilter(exts))
	d.Show()
}

func (a *App) importLayout() {
	a.ws.Prompter.Confirm("Importing a layout will overwrite your current layout.\n\nContinue?", "Import", func(ok bool) {
		if ok {
			a.openFile([]string{".json"}, func(path string) { _ = a.ws.ImportLayout(path) })
		}
	})
}

func (a *App) importCabinet() {
	a.openFile([]string{".json"}, func(path string) { _, _ = a.ws.ImportCabinet(path) })
}

func (a *App) importCabinetList() {
	a.openFile([]string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}, func(path string) {
		_, _ = a.ws.ImportCabinetList(path)
	})
}

func (a *App) exportBackup() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		_ = a.ws.ExportBackup(a.ctx, path)
	}, a.window)
	d.SetFileName(project.ExportFilename("ArcadeLayout", project.SuffixBackup))
	d.Show()
}

func (a *App) importBackup() {
	a.openFile([]string{".json"}, func(path string) { _ = a.ws.ImportBackup(a.ctx, path) })
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
