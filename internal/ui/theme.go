package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ArcadeTheme wraps the default Fyne theme with a fixed light or dark
// variant and compact sizing for the side panels.
type ArcadeTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewArcadeTheme creates a theme in dark or light mode.
func NewArcadeTheme(dark bool) *ArcadeTheme {
	t := &ArcadeTheme{base: theme.DefaultTheme()}
	t.SetDark(dark)
	return t
}

// SetDark switches between the dark and light variants.
func (t *ArcadeTheme) SetDark(dark bool) {
	if dark {
		t.variant = theme.VariantDark
	} else {
		t.variant = theme.VariantLight
	}
}

// Dark reports whether the dark variant is active.
func (t *ArcadeTheme) Dark() bool { return t.variant == theme.VariantDark }

// Color delegates to the base theme with the stored variant.
func (t *ArcadeTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

func (t *ArcadeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *ArcadeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *ArcadeTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
