package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// dialogPrompter shows workspace prompts as Fyne dialogs on the main window.
type dialogPrompter struct {
	window fyne.Window
}

func (p dialogPrompter) Confirm(message, confirmLabel string, onResult func(ok bool)) {
	d := dialog.NewCustomConfirm("Confirm", confirmLabel, "Cancel",
		widget.NewLabel(message), onResult, p.window)
	d.Show()
}

func (p dialogPrompter) Info(message string) {
	dialog.ShowInformation("ArcadeLayout", message, p.window)
}

func (p dialogPrompter) Error(err error) {
	dialog.ShowError(err, p.window)
}
