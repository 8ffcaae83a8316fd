// Package fsutil holds file helpers that sit next to the picker: a
// depth-limited tree walker and a few single-file operations. Everything
// goes through an afero.Fs so callers can swap the OS for memory.
package fsutil

import (
	"path/filepath"

	serr "fpick/internal/errors"
	"fpick/internal/log"
	"fpick/internal/picker"

	"github.com/spf13/afero"
)

// WalkOptions tunes SubFiles
type WalkOptions struct {
	// Depth limits recursion; children of the folder are at depth 1.
	// Zero or negative means unlimited.
	Depth int
	// IncludeSelf puts the folder itself first in the result.
	IncludeSelf bool
	// Filter drops entries, and stops descent into dropped folders.
	Filter func(picker.Entry) bool
}

type walkItem struct {
	entry picker.Entry
	depth int
}

// SubFiles lists every file and folder under folder, each folder's
// children directly after the folder's own siblings have been listed.
// Folders that cannot be read are skipped.
func SubFiles(fs afero.Fs, folder string, opts WalkOptions) ([]picker.Entry, error) {
	root, err := picker.Stat(fs, folder)
	if err != nil {
		return nil, err
	}
	limit := opts.Depth
	if limit <= 0 {
		limit = int(^uint(0) >> 1)
	}

	var out []picker.Entry
	if opts.IncludeSelf {
		out = append(out, root)
	}
	walkInto(fs, walkItem{entry: root}, limit, opts.Filter, &out)
	return out, nil
}

func walkInto(fs afero.Fs, item walkItem, limit int, keep func(picker.Entry) bool, out *[]picker.Entry) {
	if !item.entry.Dir || item.depth >= limit {
		return
	}
	children := listChildren(fs, item, keep)
	for _, c := range children {
		*out = append(*out, c.entry)
	}
	for _, c := range children {
		walkInto(fs, c, limit, keep, out)
	}
}

func listChildren(fs afero.Fs, parent walkItem, keep func(picker.Entry) bool) []walkItem {
	infos, err := afero.ReadDir(fs, parent.entry.Path)
	if err != nil {
		log.LogWithFields(log.F("folder", parent.entry.Path)).
			WithError(err).
			Debug("skipping unreadable folder")
		return nil
	}
	items := make([]walkItem, 0, len(infos))
	for _, info := range infos {
		e, err := picker.Stat(fs, filepath.Join(parent.entry.Path, info.Name()))
		if err != nil {
			// Dangling link or a file removed mid-walk
			continue
		}
		if keep != nil && !keep(e) {
			continue
		}
		items = append(items, walkItem{entry: e, depth: parent.depth + 1})
	}
	return items
}

// Exists reports whether path is present. Stat failures other than
// not-found count as present.
func Exists(fs afero.Fs, path string) bool {
	_, err := picker.Stat(fs, path)
	return err == nil || !serr.IsFileNotFound(err)
}
