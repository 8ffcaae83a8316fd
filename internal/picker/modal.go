package picker

import (
	"github.com/spf13/afero"
)

// ResultFunc receives the outcome of a modal pick: the chosen path and
// true on Confirm, "" and false on Cancel.
type ResultFunc func(path string, ok bool)

// Modal wraps a Surface with Confirm and Cancel. Confirm is enabled only
// while something is selected. The result callback fires exactly once;
// the modal cannot be dismissed any other way.
type Modal struct {
	surface   *Surface
	onResult  ResultFunc
	onEnabled func(bool)
	enabled   bool
	resolved  bool
}

// NewModal hosts surface. The surface should already be attached.
func NewModal(surface *Surface, onResult ResultFunc) *Modal {
	m := &Modal{surface: surface, onResult: onResult}
	surface.AddObserver(ObserverFuncs{
		Folder:    func(string) { m.update() },
		Selection: func(string) { m.update() },
	})
	m.update()
	return m
}

// OpenModal builds a surface with a back row on root and hosts it
func OpenModal(fs afero.Fs, root string, f Filter, onResult ResultFunc, opts ...SurfaceOption) (*Modal, error) {
	opts = append([]SurfaceOption{WithBackHeader()}, opts...)
	surface := NewSurface(fs, opts...)
	if err := surface.Attach(root, f); err != nil {
		return nil, err
	}
	return NewModal(surface, onResult), nil
}

// Surface returns the hosted surface
func (m *Modal) Surface() *Surface {
	return m.surface
}

// OnConfirmEnabled registers fn to follow the Confirm state. fn is called
// right away with the current state and again on every change.
func (m *Modal) OnConfirmEnabled(fn func(bool)) {
	m.onEnabled = fn
	if fn != nil {
		fn(m.enabled)
	}
}

// Show lists the root; hosts call it when the modal becomes visible
func (m *Modal) Show() {
	m.surface.Refresh()
	m.update()
}

// ConfirmEnabled reports whether Confirm would resolve the modal
func (m *Modal) ConfirmEnabled() bool {
	return m.enabled
}

// Resolved reports whether Confirm or Cancel already fired
func (m *Modal) Resolved() bool {
	return m.resolved
}

// Confirm resolves with the current selection. It does nothing while
// disabled or once resolved.
func (m *Modal) Confirm() bool {
	if m.resolved || !m.enabled {
		return false
	}
	path, _ := m.surface.CurrentSelectionPath()
	m.resolve(path, true)
	return true
}

// Cancel resolves without a selection
func (m *Modal) Cancel() bool {
	if m.resolved {
		return false
	}
	m.resolve("", false)
	return true
}

func (m *Modal) resolve(path string, ok bool) {
	m.resolved = true
	m.update()
	if m.onResult != nil {
		m.onResult(path, ok)
	}
}

func (m *Modal) update() {
	_, selected := m.surface.CurrentSelectionPath()
	enabled := selected && !m.resolved
	if enabled == m.enabled {
		return
	}
	m.enabled = enabled
	if m.onEnabled != nil {
		m.onEnabled(enabled)
	}
}
