package project

import (
	"regexp"
	"strings"

	"github.com/piwi3910/ArcadeLayout/internal/model"
)

// Suffixes appended to sanitized titles for each export.
const (
	SuffixLayout   = "_Layout.json"
	SuffixImage    = "_Layout.png"
	SuffixPDF      = "_Layout.pdf"
	SuffixDXF      = "_Layout.dxf"
	SuffixSchedule = "_Schedule.xlsx"
	SuffixLabels   = "_Labels.pdf"
	SuffixCabinet  = "_Cabinet.json"
	SuffixBackup   = "_Backup.json"
)

const maxFilenameLen = 120

var (
	reservedChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are not allowed in file names,
// collapses whitespace and limits the length. An empty result yields fallback.
func SanitizeFilename(name, fallback string) string {
	s := reservedChars.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxFilenameLen {
		s = strings.TrimSpace(string(r[:maxFilenameLen]))
	}
	if s == "" {
		return fallback
	}
	return s
}

// ExportFilename returns the file name for a layout export with the given suffix.
func ExportFilename(title, suffix string) string {
	return SanitizeFilename(title, model.DefaultLayoutTitle) + suffix
}

// CabinetFilename returns the file name for a cabinet export.
func CabinetFilename(name string) string {
	return SanitizeFilename(name, model.DefaultCabinetName) + SuffixCabinet
}
