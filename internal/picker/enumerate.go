package picker

import (
	"os"
	"path/filepath"
	"sort"

	serr "fpick/internal/errors"
	"fpick/internal/log"

	"github.com/spf13/afero"
)

// Enumerator lists, filters and orders the children of a folder.
type Enumerator struct {
	fs     afero.Fs
	logger *log.Logger
}

// NewEnumerator creates an enumerator reading through fs
func NewEnumerator(fs afero.Fs, logger *log.Logger) *Enumerator {
	if logger == nil {
		logger = log.Default()
	}
	return &Enumerator{fs: fs, logger: logger}
}

// List returns the displayable children of dir, folders first and then
// by path. A read failure yields an empty listing together with the error;
// a listing is never partial. dir must still be a folder on the filesystem,
// whatever its Dir flag says.
func (en *Enumerator) List(dir Entry, f Filter) (Listing, error) {
	f = filterOrDefault(f)
	empty := Listing{folder: dir}

	if !dir.Dir {
		return empty, serr.NewFileError("not a folder", dir.Path, serr.NotADirectory, nil)
	}
	info, err := en.fs.Stat(dir.Path)
	switch {
	case os.IsNotExist(err):
		return empty, serr.NewFileError("folder is gone", dir.Path, serr.NotADirectory, err)
	case err != nil:
		return empty, listError(dir.Path, err)
	case !info.IsDir():
		return empty, serr.NewFileError("not a folder", dir.Path, serr.NotADirectory, nil)
	}

	infos, err := afero.ReadDir(en.fs, dir.Path)
	if err != nil {
		return empty, listError(dir.Path, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		path := filepath.Join(dir.Path, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			// Report links as what they point to; dangling links stay files.
			if target, err := en.fs.Stat(path); err == nil {
				info = target
			}
		}
		e := entryFromInfo(path, info)
		if f.CanBeDisplayed(e) {
			entries = append(entries, e)
		}
	}

	sortEntries(entries)
	en.logger.With(log.F("folder", dir.Path), log.F("entries", len(entries))).Debug("listed folder")
	return Listing{folder: dir, entries: entries}, nil
}

func listError(path string, err error) error {
	kind := serr.ReadFailed
	if os.IsPermission(err) {
		kind = serr.FileAccessDenied
	} else if os.IsNotExist(err) {
		kind = serr.FileNotFound
	}
	return serr.NewFileError("cannot list folder", path, kind, err)
}

// sortEntries orders folders before files, then by path
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Dir != entries[j].Dir {
			return entries[i].Dir
		}
		return entries[i].Path < entries[j].Path
	})
}
