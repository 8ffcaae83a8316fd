//go:build !nogui

package gui

import (
	"sync"

	"fpick/internal/picker"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

const timeLayout = "2006-01-02 15:04"

// PickerView shows a picker surface as a fyne list. Surface operations are
// serialized, so the view can be driven from widget callbacks and from
// background events alike.
type PickerView struct {
	surface *picker.Surface

	list    *widget.List
	folder  *widget.Label
	content fyne.CanvasObject

	opMu sync.Mutex // held while the surface changes

	mu        sync.RWMutex
	items     []picker.Item
	current   string
	selection string
	changed   []func()
}

// NewPickerView wraps an attached surface
func NewPickerView(surface *picker.Surface) *PickerView {
	v := &PickerView{
		surface: surface,
		folder:  widget.NewLabel(""),
	}
	v.folder.Truncation = fyne.TextTruncateEllipsis
	v.folder.TextStyle = fyne.TextStyle{Bold: true}

	v.list = widget.NewList(
		func() int {
			v.mu.RLock()
			defer v.mu.RUnlock()
			return len(v.items)
		},
		func() fyne.CanvasObject { return newPickerRow() },
		v.updateItem,
	)
	// Rows act as buttons; the surface keeps its own highlight
	v.list.OnSelected = func(id widget.ListItemID) {
		v.list.UnselectAll()
		v.Click(id)
	}

	v.content = container.NewBorder(v.folder, nil, nil, nil, v.list)
	return v
}

// Content returns the widget tree to embed
func (v *PickerView) Content() fyne.CanvasObject {
	return v.content
}

// Surface returns the wrapped surface
func (v *PickerView) Surface() *picker.Surface {
	return v.surface
}

// OnChanged registers fn to run after every operation, outside the lock
func (v *PickerView) OnChanged(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.changed = append(v.changed, fn)
}

// Do runs op against the surface and redraws the list
func (v *PickerView) Do(op func()) {
	v.opMu.Lock()
	op()
	items := v.surface.Items()
	current := v.surface.CurrentFolder()
	selection, _ := v.surface.CurrentSelectionPath()
	v.opMu.Unlock()

	v.mu.Lock()
	v.items = items
	v.current = current
	v.selection = selection
	changed := make([]func(), len(v.changed))
	copy(changed, v.changed)
	v.mu.Unlock()

	v.folder.SetText(current)
	v.list.Refresh()
	for _, fn := range changed {
		fn()
	}
}

// Refresh lists the current folder again
func (v *PickerView) Refresh() {
	v.Do(v.surface.Refresh)
}

// Back browses to the parent folder
func (v *PickerView) Back() (moved bool) {
	v.Do(func() { moved = v.surface.NavigateBack() })
	return moved
}

// Click clicks the row at position
func (v *PickerView) Click(position int) (selected bool) {
	v.Do(func() { selected = v.surface.Click(position) })
	return selected
}

// Items returns the rows as last drawn
func (v *PickerView) Items() []picker.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.items
}

// CurrentFolder returns the folder as last drawn
func (v *PickerView) CurrentFolder() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Selection returns the selection as last drawn
func (v *PickerView) Selection() (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selection, v.selection != ""
}

func (v *PickerView) updateItem(id widget.ListItemID, obj fyne.CanvasObject) {
	v.mu.RLock()
	if id < 0 || id >= len(v.items) {
		v.mu.RUnlock()
		return
	}
	item := v.items[id]
	selected := v.selection != "" && item.Kind != picker.ItemBack && item.Entry.Path == v.selection
	v.mu.RUnlock()

	obj.(*pickerRow).set(item, selected)
}

// pickerRow is one list row: icon, name and details
type pickerRow struct {
	widget.BaseWidget
	icon    *widget.Icon
	name    *widget.Label
	details *widget.Label
}

func newPickerRow() *pickerRow {
	r := &pickerRow{
		icon:    widget.NewIcon(theme.FileIcon()),
		name:    widget.NewLabel(""),
		details: widget.NewLabel(""),
	}
	r.name.Truncation = fyne.TextTruncateEllipsis
	r.ExtendBaseWidget(r)
	return r
}

func (r *pickerRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, r.icon, r.details, r.name))
}

func (r *pickerRow) set(item picker.Item, selected bool) {
	details := ""
	switch item.Kind {
	case picker.ItemBack:
		r.icon.SetResource(theme.NavigateBackIcon())
	case picker.ItemFolder:
		r.icon.SetResource(theme.FolderIcon())
		details = item.Entry.ModTime.Format(timeLayout)
	default:
		r.icon.SetResource(theme.FileIcon())
		details = humanize.Bytes(uint64(item.Entry.Size)) + "  " + item.Entry.ModTime.Format(timeLayout)
	}

	r.name.TextStyle = fyne.TextStyle{Bold: selected || item.Highlighted, Italic: item.Kind == picker.ItemBack}
	r.name.SetText(item.Label)
	r.details.SetText(details)
}
