package common

import "fpick/internal/picker"

// Mode tells a plain browser from a modal picker awaiting a result
type Mode int

const (
	Browse Mode = iota
	Pick
)

// Focus is the control receiving enter in Pick mode
type Focus int

const (
	FocusList Focus = iota
	FocusConfirm
	FocusCancel
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Items() []picker.Item
	Cursor() int
	Offset() int
	Height() int
	Width() int
	ShowHelp() bool
	Mode() Mode
	Focus() Focus
	CurrentDir() string
	Selection() (string, bool)
	ConfirmEnabled() bool
	StatusView() string
	HelpView() string
	Err() error
}
