//go:build nogui

package gui

import (
	"errors"

	"fpick/internal/config"

	"github.com/spf13/afero"
)

// ErrNoGUI is returned by every entry point of a build without GUI
var ErrNoGUI = errors.New("GUI not available in this build")

// Run is a stub implementation for builds with GUI disabled
func Run(*config.Config, afero.Fs) error {
	return ErrNoGUI
}

// Pick is a stub implementation for builds with GUI disabled
func Pick(*config.Config, afero.Fs) (string, bool, error) {
	return "", false, ErrNoGUI
}

// PromptRoot is a stub implementation for builds with GUI disabled
func PromptRoot(string) (string, error) {
	return "", ErrNoGUI
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
