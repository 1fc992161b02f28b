// ArcadeLayout: arcade floor planner
//
// A cross-platform desktop application for laying out arcade cabinets in a
// room without overlaps and exporting floor plans, schedules and labels.
//
// Build:
//   go build -o arcadelayout ./cmd/arcadelayout
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o arcadelayout.exe ./cmd/arcadelayout
//   GOOS=darwin  GOARCH=amd64 go build -o arcadelayout-darwin ./cmd/arcadelayout
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/piwi3910/ArcadeLayout/internal/project"
	"github.com/piwi3910/ArcadeLayout/internal/storage"
	"github.com/piwi3910/ArcadeLayout/internal/ui"
	"github.com/piwi3910/ArcadeLayout/internal/workspace"
)

func main() {
	configPath := project.DefaultConfigPath()
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arcadelayout: %v; using defaults\n", err)
		cfg = model.DefaultAppConfig()
	}
	if err := project.ApplyEnvOverrides(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "arcadelayout: %v\n", err)
		os.Exit(1)
	}

	applog.Init(applog.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	defer applog.Close()
	log := applog.WithComponent("main")

	dataDir := project.DataDir(cfg)
	slots, err := storage.Open(cfg.Storage, dataDir)
	if err != nil {
		// Saved rooms and cabinets are unavailable; everything else still works.
		log.Error("failed to open storage", "backend", cfg.Storage, "dir", dataDir, "error", err)
	} else {
		defer slots.Close()
		log.Info("storage ready", "backend", cfg.Storage, "dir", dataDir)
	}

	ws := workspace.New(cfg, slots, nil)
	ws.ConfigPath = configPath

	application := app.NewWithID("com.piwi3910.arcadelayout")
	window := application.NewWindow("ArcadeLayout — Arcade Floor Planner")

	appUI := ui.NewApp(application, window, ws)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
