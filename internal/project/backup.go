package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                               `json:"version"`
	CreatedAt string                               `json:"created_at"`
	Config    model.AppConfig                      `json:"config"`
	Rooms     model.Library[model.Layout]          `json:"rooms"`
	Cabinets  model.Library[model.CabinetTemplate] `json:"cabinets"`
}

// ExportAllData exports the config and the saved room and cabinet slots
// to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, rooms model.Library[model.Layout], cabinets model.Library[model.CabinetTemplate]) error {
	if rooms.Entries == nil {
		rooms = model.NewLibrary[model.Layout]()
	}
	if cabinets.Entries == nil {
		cabinets = model.NewLibrary[model.CabinetTemplate]()
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Rooms:     rooms,
		Cabinets:  cabinets,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and slots.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentLayouts == nil {
		backup.Config.RecentLayouts = []string{}
	}
	if backup.Rooms.Entries == nil {
		backup.Rooms = model.NewLibrary[model.Layout]()
	}
	if backup.Cabinets.Entries == nil {
		backup.Cabinets = model.NewLibrary[model.CabinetTemplate]()
	}
	return backup, nil
}
