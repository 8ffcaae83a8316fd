//go:build !nogui

package gui

import (
	"sync/atomic"

	"fpick/internal/picker"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/afero"
)

const (
	dialogTitle  = "Choose a file"
	confirmLabel = "Confirm"
	cancelLabel  = "Cancel"
)

// PickerDialog is a modal picker over a window. It closes only through
// Confirm or Cancel, and reports the outcome once.
type PickerDialog struct {
	view    *PickerView
	modal   *picker.Modal
	dialog  *dialog.CustomDialog
	confirm *widget.Button
	cancel  *widget.Button

	onResult picker.ResultFunc
	enabled  atomic.Bool
	result   string
	ok       bool
}

// NewPickerDialog hosts an attached surface. The surface should carry a
// back row, see picker.WithBackHeader.
func NewPickerDialog(surface *picker.Surface, parent fyne.Window, onResult picker.ResultFunc) *PickerDialog {
	d := &PickerDialog{onResult: onResult}
	d.view = NewPickerView(surface)
	d.view.Do(func() {
		d.modal = picker.NewModal(surface, func(path string, ok bool) {
			d.result, d.ok = path, ok
		})
		d.modal.OnConfirmEnabled(d.enabled.Store)
	})

	d.confirm = widget.NewButtonWithIcon(confirmLabel, theme.ConfirmIcon(), func() { d.resolve(d.modal.Confirm) })
	d.confirm.Importance = widget.HighImportance
	d.cancel = widget.NewButtonWithIcon(cancelLabel, theme.CancelIcon(), func() { d.resolve(d.modal.Cancel) })
	d.view.OnChanged(d.syncConfirm)
	d.syncConfirm()

	d.dialog = dialog.NewCustomWithoutButtons(dialogTitle, d.view.Content(), parent)
	d.dialog.SetButtons([]fyne.CanvasObject{d.cancel, d.confirm})
	d.dialog.Resize(fyne.NewSize(520, 560))
	return d
}

// ShowPickerDialog opens a modal picker on root over parent
func ShowPickerDialog(fs afero.Fs, root string, f picker.Filter, parent fyne.Window, onResult picker.ResultFunc, opts ...picker.SurfaceOption) (*PickerDialog, error) {
	opts = append([]picker.SurfaceOption{picker.WithBackHeader()}, opts...)
	surface := picker.NewSurface(fs, opts...)
	if err := surface.Attach(root, f); err != nil {
		return nil, err
	}
	d := NewPickerDialog(surface, parent, onResult)
	d.Show()
	return d, nil
}

// Show lists the root and shows the dialog
func (d *PickerDialog) Show() {
	d.view.Do(d.modal.Show)
	d.dialog.Show()
}

// View returns the embedded picker view
func (d *PickerDialog) View() *PickerView {
	return d.view
}

func (d *PickerDialog) resolve(action func() bool) {
	var resolved bool
	d.view.Do(func() { resolved = action() })
	if !resolved {
		return
	}
	d.dialog.Hide()
	if d.onResult != nil {
		d.onResult(d.result, d.ok)
	}
}

func (d *PickerDialog) syncConfirm() {
	if d.confirm == nil {
		return
	}
	if d.enabled.Load() {
		d.confirm.Enable()
	} else {
		d.confirm.Disable()
	}
}
