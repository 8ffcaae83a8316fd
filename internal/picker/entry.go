package picker

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	serr "fpick/internal/errors"

	"github.com/spf13/afero"
)

// Entry is a file or folder seen through the picker's filesystem.
type Entry struct {
	Path    string
	Dir     bool
	Size    int64
	ModTime time.Time
}

// Name returns the base name of the entry
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Parent returns the path of the containing folder
func (e Entry) Parent() string {
	return filepath.Dir(e.Path)
}

// IsZero reports whether e is the empty entry
func (e Entry) IsZero() bool {
	return e.Path == ""
}

func entryFromInfo(path string, info os.FileInfo) Entry {
	return Entry{
		Path:    path,
		Dir:     info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// Stat resolves path to an Entry. Relative paths are made absolute.
func Stat(fs afero.Fs, path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, serr.NewFileError("invalid path", path, serr.InvalidPath, err)
	}
	info, err := fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, serr.NewFileError("no such file", abs, serr.FileNotFound, err)
		}
		if os.IsPermission(err) {
			return Entry{}, serr.NewFileError("cannot stat", abs, serr.FileAccessDenied, err)
		}
		return Entry{}, serr.NewFileError("cannot stat", abs, serr.ReadFailed, err)
	}
	return entryFromInfo(abs, info), nil
}

// within reports whether path is root or lies below it
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
