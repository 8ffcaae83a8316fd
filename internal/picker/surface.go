package picker

import (
	serr "fpick/internal/errors"
	"fpick/internal/log"

	"github.com/spf13/afero"
)

// ItemKind tells rows of a surface apart
type ItemKind int

const (
	ItemBack ItemKind = iota
	ItemFolder
	ItemFile
)

// Item is one row of a picker surface
type Item struct {
	Kind        ItemKind
	Entry       Entry
	Label       string
	Highlighted bool
}

// BackLabel is the label of the synthetic "browse back" row
const BackLabel = "Back"

// Surface is an embeddable file picker: a session plus a clickable list
// of rows. Hosts render Items and forward clicks by position.
type Surface struct {
	fs          afero.Fs
	en          *Enumerator
	logger      *log.Logger
	session     *Session
	observers   Observers
	backHeader  bool
	highlighted int
}

// SurfaceOption configures a Surface
type SurfaceOption func(*Surface)

// WithBackHeader adds a "browse back" row at position 0
func WithBackHeader() SurfaceOption {
	return func(s *Surface) { s.backHeader = true }
}

// WithObserver registers an observer for folder and selection changes
func WithObserver(o Observer) SurfaceOption {
	return func(s *Surface) { s.observers = append(s.observers, o) }
}

// WithLogger sets the logger used by the surface and its session
func WithLogger(l *log.Logger) SurfaceOption {
	return func(s *Surface) { s.logger = l }
}

// NewSurface creates a surface reading through fs. Attach it to a root
// before use.
func NewSurface(fs afero.Fs, opts ...SurfaceOption) *Surface {
	s := &Surface{fs: fs, highlighted: -1}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.en = NewEnumerator(fs, s.logger)
	return s
}

// AddObserver registers another observer
func (s *Surface) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Attach binds the surface to root. It fails with an InvalidRoot error
// when root is missing or not a folder.
func (s *Surface) Attach(root string, f Filter) error {
	e, err := Stat(s.fs, root)
	if err != nil {
		return serr.NewFileError("invalid root", root, serr.InvalidRoot, err)
	}
	session, err := NewSession(s.en, e, f, surfaceRelay{s})
	if err != nil {
		return err
	}
	s.session = session
	s.highlighted = -1
	s.logger.With(log.F("root", e.Path)).Debug("picker attached")
	return nil
}

// Attached reports whether Attach succeeded
func (s *Surface) Attached() bool {
	return s.session != nil
}

// Session exposes the underlying session, nil before Attach
func (s *Surface) Session() *Session {
	return s.session
}

// Refresh lists the current folder again
func (s *Surface) Refresh() {
	if s.session == nil {
		return
	}
	s.session.Refresh()
}

// NavigateBack browses to the parent folder, never above the root
func (s *Surface) NavigateBack() bool {
	if s.session == nil {
		return false
	}
	return s.session.NavigateBack()
}

// HasBackHeader reports whether position 0 is the back row
func (s *Surface) HasBackHeader() bool {
	return s.backHeader
}

// Len returns the number of rows, including the back row
func (s *Surface) Len() int {
	n := s.Listing().Len()
	if s.backHeader {
		n++
	}
	return n
}

// Items returns the rows to render
func (s *Surface) Items() []Item {
	listing := s.Listing()
	items := make([]Item, 0, s.Len())
	if s.backHeader {
		items = append(items, Item{Kind: ItemBack, Label: BackLabel})
	}
	for i, e := range listing.entries {
		kind := ItemFile
		if e.Dir {
			kind = ItemFolder
		}
		items = append(items, Item{
			Kind:        kind,
			Entry:       e,
			Label:       e.Name(),
			Highlighted: i == s.highlighted,
		})
	}
	return items
}

// Position converts a listing index to a row position
func (s *Surface) Position(index int) int {
	if s.backHeader {
		return index + 1
	}
	return index
}

// Click handles a click on the row at position. Folders are entered, and
// become the selection when the filter accepts them; accepted files are
// selected and highlighted. It returns whether a selection was made.
func (s *Surface) Click(position int) bool {
	if s.session == nil {
		return false
	}
	if s.backHeader {
		if position == 0 {
			s.session.NavigateBack()
			return false
		}
		position--
	}
	e, ok := s.session.Listing().At(position)
	if !ok {
		return false
	}

	selected := s.session.Select(e)
	if e.Dir {
		if !selected {
			s.session.NavigateInto(e)
		}
		return selected
	}
	if selected {
		s.highlighted = position
	}
	return selected
}

// Highlighted returns the listing index of the highlighted file, or -1
func (s *Surface) Highlighted() int {
	return s.highlighted
}

// Listing returns the current listing
func (s *Surface) Listing() Listing {
	if s.session == nil {
		return Listing{}
	}
	return s.session.Listing()
}

// CurrentFolder returns the absolute path of the folder on display
func (s *Surface) CurrentFolder() string {
	if s.session == nil {
		return ""
	}
	return s.session.Current().Path
}

// CurrentSelectionPath returns the absolute path of the selection
func (s *Surface) CurrentSelectionPath() (string, bool) {
	if s.session == nil {
		return "", false
	}
	e, ok := s.session.Selection()
	return e.Path, ok
}

// surfaceRelay keeps the surface's own bookkeeping ahead of observers
type surfaceRelay struct {
	s *Surface
}

func (r surfaceRelay) FolderChanged(path string) {
	r.s.highlighted = -1
	r.s.observers.FolderChanged(path)
}

func (r surfaceRelay) SelectionChanged(path string) {
	r.s.observers.SelectionChanged(path)
}
