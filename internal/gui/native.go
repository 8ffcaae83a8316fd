//go:build !nogui

package gui

import (
	"errors"
	"fmt"

	nativedialog "github.com/sqweek/dialog"
)

// PromptRoot asks for a folder with the platform's own dialog. A cancelled
// dialog returns nativedialog.ErrCancelled.
func PromptRoot(title string) (string, error) {
	dir, err := nativedialog.Directory().Title(title).Browse()
	if err != nil {
		if errors.Is(err, nativedialog.ErrCancelled) {
			return "", err
		}
		return "", fmt.Errorf("folder selection failed: %w", err)
	}
	return dir, nil
}
