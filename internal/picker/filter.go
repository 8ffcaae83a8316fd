package picker

import (
	"strings"

	"github.com/gobwas/glob"
)

// Filter decides what a picker shows and what it accepts as a result.
//
// CanBeDisplayed gates membership in a listing; an entry that is not
// displayed cannot be clicked. CanBeSelected gates whether choosing an
// entry makes it the current selection. Directories stay navigable even
// when they cannot be selected.
type Filter interface {
	CanBeSelected(e Entry) bool
	CanBeDisplayed(e Entry) bool
}

func isHidden(e Entry) bool {
	return strings.HasPrefix(e.Name(), ".")
}

type normalAll struct{}

func (normalAll) CanBeSelected(Entry) bool    { return true }
func (normalAll) CanBeDisplayed(e Entry) bool { return !isHidden(e) }

type normalFiles struct{}

func (normalFiles) CanBeSelected(e Entry) bool  { return !e.Dir }
func (normalFiles) CanBeDisplayed(e Entry) bool { return !isHidden(e) }

var (
	// DefaultFilter shows everything that is not hidden and accepts any
	// file or folder.
	DefaultFilter Filter = normalAll{}

	// FilesFilter shows everything that is not hidden and accepts files only.
	FilesFilter Filter = normalFiles{}
)

// FilterFuncs adapts two functions to a Filter. A nil function falls
// back to DefaultFilter for that predicate.
type FilterFuncs struct {
	Select  func(Entry) bool
	Display func(Entry) bool
}

func (f FilterFuncs) CanBeSelected(e Entry) bool {
	if f.Select == nil {
		return DefaultFilter.CanBeSelected(e)
	}
	return f.Select(e)
}

func (f FilterFuncs) CanBeDisplayed(e Entry) bool {
	if f.Display == nil {
		return DefaultFilter.CanBeDisplayed(e)
	}
	return f.Display(e)
}

// SelectMode restricts which kind of entry a GlobFilter accepts
type SelectMode int

const (
	SelectAll SelectMode = iota
	SelectFiles
	SelectDirs
	SelectNone
)

// GlobFilter matches entry names against glob patterns.
//
// An entry is displayed when it is not hidden (or ShowHidden is set) and,
// for files, matches one of the display patterns (any, if none given).
// Directories skip the display patterns so they remain browsable.
// An entry is selectable when Mode admits its kind and its name matches
// one of the select patterns (any, if none given).
type GlobFilter struct {
	Mode       SelectMode
	ShowHidden bool

	selects  []glob.Glob
	displays []glob.Glob
}

// NewGlobFilter compiles the select and display patterns
func NewGlobFilter(mode SelectMode, showHidden bool, selectPatterns, displayPatterns []string) (*GlobFilter, error) {
	g := &GlobFilter{Mode: mode, ShowHidden: showHidden}
	var err error
	if g.selects, err = compileAll(selectPatterns); err != nil {
		return nil, err
	}
	if g.displays, err = compileAll(displayPatterns); err != nil {
		return nil, err
	}
	return g, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (g *GlobFilter) CanBeSelected(e Entry) bool {
	switch g.Mode {
	case SelectNone:
		return false
	case SelectFiles:
		if e.Dir {
			return false
		}
	case SelectDirs:
		if !e.Dir {
			return false
		}
	}
	return matchAny(g.selects, e.Name())
}

func (g *GlobFilter) CanBeDisplayed(e Entry) bool {
	if !g.ShowHidden && isHidden(e) {
		return false
	}
	if e.Dir {
		return true
	}
	return matchAny(g.displays, e.Name())
}

func filterOrDefault(f Filter) Filter {
	if f == nil {
		return DefaultFilter
	}
	return f
}
