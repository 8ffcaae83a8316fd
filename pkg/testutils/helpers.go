package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		err := os.WriteFile(path, []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateTestFilesWithDefault creates test files with default content
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	files := map[string]string{
		"test1.txt": "test content 1",
		"test2.txt": "test content 2",
		"test3.jpg": "image content",
	}
	CreateTestFilesWithContent(t, dir, files)
}

// NewMemFs builds an in-memory filesystem from tree. Keys ending in "/"
// are created as folders, everything else as files holding the value.
func NewMemFs(t *testing.T, tree map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range tree {
		if strings.HasSuffix(path, "/") {
			require.NoError(t, fs.MkdirAll(filepath.Clean(path), 0755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

// SdcardTree is a small device-like layout used across picker tests
func SdcardTree() map[string]string {
	return map[string]string{
		"/sdcard/.config/settings": "x",
		"/sdcard/Photos/img.jpg":   "jpeg",
		"/sdcard/Photos/notes.txt": "text",
		"/sdcard/Photos/Trips/":    "",
		"/sdcard/Music/":           "",
		"/sdcard/b.txt":            "b",
		"/sdcard/a.txt":            "a",
		"/sdcard/.hidden.txt":      "h",
	}
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
