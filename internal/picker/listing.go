package picker

import (
	"unicode"
	"unicode/utf8"
)

// Listing is an ordered snapshot of a folder's displayable children.
// It is rebuilt on every visit and never mutated.
type Listing struct {
	folder  Entry
	entries []Entry
}

// Folder returns the listed folder
func (l Listing) Folder() Entry {
	return l.folder
}

// Len returns the number of entries
func (l Listing) Len() int {
	return len(l.entries)
}

// At returns the entry at index i
func (l Listing) At(i int) (Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Entries returns a copy of the entries
func (l Listing) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Paths returns the entry paths in listing order
func (l Listing) Paths() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Path
	}
	return out
}

// Equal reports whether both listings cover the same folder with the same
// entries in the same order.
func (l Listing) Equal(other Listing) bool {
	if l.folder.Path != other.folder.Path || len(l.entries) != len(other.entries) {
		return false
	}
	for i := range l.entries {
		a, b := l.entries[i], other.entries[i]
		if a.Path != b.Path || a.Dir != b.Dir || a.Size != b.Size || !a.ModTime.Equal(b.ModTime) {
			return false
		}
	}
	return true
}

// IndexOfInitial returns the first entry whose name starts with r,
// ignoring case, or -1.
func (l Listing) IndexOfInitial(r rune) int {
	r = unicode.ToLower(r)
	for i, e := range l.entries {
		first, _ := utf8.DecodeRuneInString(e.Name())
		if unicode.ToLower(first) == r {
			return i
		}
	}
	return -1
}
