package picker

import (
	serr "fpick/internal/errors"
	"fpick/internal/log"
)

// Session is the browse state of one picker: the root it may not leave,
// the folder on display, and the current selection.
//
// A Session is driven from a single goroutine and holds no locks.
type Session struct {
	en       *Enumerator
	filter   Filter
	observer Observer
	logger   *log.Logger

	root      Entry
	current   Entry
	selection Entry
	listing   Listing
	listErr   error
}

// NewSession starts browsing at root. The root becomes the initial
// selection when the filter accepts it. Nothing is listed and no
// notification is sent until Refresh.
func NewSession(en *Enumerator, root Entry, f Filter, obs Observer) (*Session, error) {
	if !root.Dir {
		return nil, serr.NewFileError("root is not a directory", root.Path, serr.InvalidRoot, nil)
	}
	if obs == nil {
		obs = nopObserver{}
	}
	s := &Session{
		en:       en,
		filter:   filterOrDefault(f),
		observer: obs,
		logger:   en.logger.With(log.F("root", root.Path)),
		root:     root,
		current:  root,
		listing:  Listing{folder: root},
	}
	if s.filter.CanBeSelected(root) {
		s.selection = root
	}
	return s, nil
}

// Root returns the upper browsing boundary
func (s *Session) Root() Entry { return s.root }

// Current returns the folder on display
func (s *Session) Current() Entry { return s.current }

// Listing returns the latest listing of the current folder
func (s *Session) Listing() Listing { return s.listing }

// ListErr returns the error of the latest listing, if it failed
func (s *Session) ListErr() error { return s.listErr }

// Filter returns the session's filter
func (s *Session) Filter() Filter { return s.filter }

// Selection returns the current selection, if any
func (s *Session) Selection() (Entry, bool) {
	return s.selection, !s.selection.IsZero()
}

// SetObserver replaces the notification target
func (s *Session) SetObserver(obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}
	s.observer = obs
}

// Refresh lists the current folder again
func (s *Session) Refresh() error {
	return s.display(s.current)
}

// NavigateInto displays folder e. Non-folders and paths outside the root
// are refused and leave the session unchanged.
func (s *Session) NavigateInto(e Entry) error {
	if !e.Dir {
		err := serr.NewFileError("not a folder", e.Path, serr.NotADirectory, nil)
		s.logger.WithError(err).Warn("navigation refused")
		return err
	}
	if !within(s.root.Path, e.Path) {
		err := serr.NewFileError("outside of root", e.Path, serr.InvalidPath, nil)
		s.logger.WithError(err).Warn("navigation refused")
		return err
	}
	return s.display(e)
}

// NavigateBack displays the parent of the current folder. At the root it
// does nothing and returns false.
func (s *Session) NavigateBack() bool {
	if s.current.Path == s.root.Path {
		return false
	}
	parent, err := Stat(s.en.fs, s.current.Parent())
	if err != nil {
		s.logger.WithError(err).Warn("cannot browse back")
		return false
	}
	return s.display(parent) == nil
}

// Select makes e the selection when the filter accepts it, and enters e
// when it is a folder. A refused entry changes nothing and returns false.
func (s *Session) Select(e Entry) bool {
	if err := s.Choose(e); err != nil {
		s.logger.WithError(err).Debug("selection refused")
		return false
	}
	return true
}

// Choose is Select reporting why an entry was refused: a SelectionRejected
// error for entries the filter or the root excludes, NotADirectory for a
// folder that can no longer be entered.
func (s *Session) Choose(e Entry) error {
	if !within(s.root.Path, e.Path) || !s.filter.CanBeSelected(e) {
		return serr.NewFileError("selection rejected", e.Path, serr.SelectionRejected, nil)
	}
	if !e.Dir {
		s.selection = e
		s.observer.SelectionChanged(e.Path)
		return nil
	}

	// A folder is selected only once it could be entered
	listing, err := s.list(e)
	if serr.IsNotADirectory(err) {
		return err
	}
	s.selection = e
	s.observer.SelectionChanged(e.Path)
	s.enter(e, listing, err)
	return nil
}

// display lists folder and makes it current. A folder that cannot be read
// is still entered, with an empty listing; a path that is no longer a
// folder leaves the session as it was.
func (s *Session) display(folder Entry) error {
	listing, err := s.list(folder)
	if serr.IsNotADirectory(err) {
		return err
	}
	s.enter(folder, listing, err)
	return nil
}

func (s *Session) list(folder Entry) (Listing, error) {
	listing, err := s.en.List(folder, s.filter)
	if err != nil {
		if serr.IsNotADirectory(err) {
			s.logger.WithError(err).Warn("cannot display")
		} else {
			s.logger.WithError(err).Warn("folder listed as empty")
		}
	}
	return listing, err
}

// enter makes folder current with its listing and re-evaluates the
// selection
func (s *Session) enter(folder Entry, listing Listing, err error) {
	prev := s.selection
	s.current = folder
	s.listing = listing
	s.listErr = err

	// A selectable folder becomes the selection; otherwise whatever was
	// selected elsewhere is dropped.
	if s.filter.CanBeSelected(folder) {
		s.selection = folder
	} else {
		s.selection = Entry{}
	}
	if s.selection.Path != prev.Path {
		s.observer.SelectionChanged(s.selection.Path)
	}
	s.observer.FolderChanged(folder.Path)
}
