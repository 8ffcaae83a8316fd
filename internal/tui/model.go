package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fpick/internal/log"
	"fpick/internal/mediascan"
	"fpick/internal/picker"
	"fpick/internal/tui/common"
	"fpick/internal/tui/components"
	"fpick/internal/tui/messages"
	"fpick/internal/tui/styles"
	"fpick/internal/tui/views"
	"fpick/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

const (
	defaultWidth  = 80
	defaultHeight = 20

	// rows taken by everything around the list
	chromeHeight = 12

	refreshDelay = 100 * time.Millisecond
)

type Model struct {
	// Core state
	surface  *picker.Surface
	modal    *picker.Modal
	mode     common.Mode
	focus    common.Focus
	cursor   int
	offset   int
	width    int
	height   int
	showHelp bool
	jumping  bool

	// Modal outcome
	confirmEnabled bool
	result         string
	resultOK       bool
	done           bool

	// Collaborators
	keys       KeyMap
	help       help.Model
	theme      styles.Theme
	status     *components.StatusBar
	logger     *log.Logger
	watcher    *watch.Watcher
	refreshGen int
	scanner    *mediascan.Scanner
	poster     *programPoster
	ctx        context.Context
}

// Option configures a Model
type Option func(*Model)

// WithTheme sets the styles used to render the picker
func WithTheme(theme styles.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithKeyMap replaces the default bindings
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) { m.keys = keys }
}

// WithWatcher refreshes the listing when the displayed folder changes on
// disk. The model starts the watcher and retargets it on navigation.
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithIndexer enables scanning the selection, or the current folder, into
// idx. Scan results are delivered on the program loop.
func WithIndexer(fs afero.Fs, idx mediascan.Indexer, opts ...mediascan.Option) Option {
	return func(m *Model) { m.scanner = mediascan.NewScanner(fs, idx, m.poster, opts...) }
}

// WithSize sets the initial list size before the terminal reports one
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithContext bounds background scans
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates a browser over an attached surface
func New(surface *picker.Surface, opts ...Option) *Model {
	return newModel(surface, common.Browse, opts)
}

// NewPicker hosts an attached surface in a modal: the program ends on
// Confirm or Cancel and Result reports the outcome.
func NewPicker(surface *picker.Surface, opts ...Option) *Model {
	m := newModel(surface, common.Pick, opts)
	m.modal = picker.NewModal(surface, m.resolve)
	m.modal.OnConfirmEnabled(func(enabled bool) {
		m.confirmEnabled = enabled
		if !enabled && m.focus == common.FocusConfirm {
			m.focus = common.FocusList
		}
	})
	return m
}

func newModel(surface *picker.Surface, mode common.Mode, opts []Option) *Model {
	m := &Model{
		surface: surface,
		mode:    mode,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		theme:   styles.Default,
		poster:  &programPoster{},
		width:   defaultWidth,
		height:  defaultHeight,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.LogWithFields(log.F("component", "tui"))
	}
	m.status = components.NewStatusBar(m.theme)
	surface.AddObserver(picker.ObserverFuncs{
		Folder:    m.folderChanged,
		Selection: m.selectionChanged,
	})
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.modal != nil {
		m.modal.Show()
	} else {
		m.surface.Refresh()
	}

	if m.watcher == nil {
		return nil
	}
	if err := m.watcher.Start(); err != nil {
		m.logger.WithError(err).Warn("cannot start watcher")
		m.watcher = nil
		return nil
	}
	return m.waitForEvent()
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.theme)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(1, msg.Height-chromeHeight)
		m.help.Width = msg.Width
		m.ensureVisible()
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case messages.PostMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
	case messages.WatchEventMsg:
		if msg.Event.Dir != m.surface.CurrentFolder() {
			return m, m.waitForEvent()
		}
		m.refreshGen++
		gen := m.refreshGen
		return m, tea.Batch(
			tea.Tick(refreshDelay, func(time.Time) tea.Msg { return messages.RefreshMsg{Gen: gen} }),
			m.waitForEvent(),
		)
	case messages.WatchClosedMsg:
		m.logger.Debug("watcher closed")
	case messages.RefreshMsg:
		if msg.Gen == m.refreshGen {
			m.refresh()
		}
	case messages.ErrorMsg:
		m.status.SetError(msg.Err)
	case spinner.TickMsg:
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jumping {
		m.jumping = false
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
			m.jumpTo(msg.Runes[0])
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		if m.modal != nil {
			m.modal.Cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.GotoTop):
		m.setCursor(0)
	case key.Matches(msg, m.keys.GotoEnd):
		m.setCursor(m.surface.Len() - 1)
	case key.Matches(msg, m.keys.Open):
		m.activate()
	case key.Matches(msg, m.keys.GoBack):
		m.goBack()
	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.Scan):
		cmd = m.scan()
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus()
	case key.Matches(msg, m.keys.Confirm):
		if m.modal != nil {
			m.modal.Confirm()
		}
	}

	if m.done {
		return m, tea.Quit
	}
	return m, cmd
}

// activate presses whatever has focus
func (m *Model) activate() {
	switch m.focus {
	case common.FocusConfirm:
		m.modal.Confirm()
	case common.FocusCancel:
		m.modal.Cancel()
	default:
		prev := m.surface.CurrentFolder()
		m.surface.Click(m.cursor)
		if m.surface.CurrentFolder() != prev {
			m.cursorOn(prev)
		}
	}
}

func (m *Model) goBack() {
	prev := m.surface.CurrentFolder()
	if m.surface.NavigateBack() {
		m.cursorOn(prev)
	}
}

func (m *Model) cycleFocus() {
	if m.modal == nil {
		return
	}
	switch m.focus {
	case common.FocusList:
		if m.confirmEnabled {
			m.focus = common.FocusConfirm
		} else {
			m.focus = common.FocusCancel
		}
	case common.FocusConfirm:
		m.focus = common.FocusCancel
	default:
		m.focus = common.FocusList
	}
}

// refresh lists the folder again, keeping the cursor and a file selection
// on the same entries when they still exist.
func (m *Model) refresh() {
	var underCursor string
	if items := m.surface.Items(); m.cursor < len(items) {
		underCursor = items[m.cursor].Entry.Path
	}
	selected, hadSelection := m.surface.CurrentSelectionPath()

	m.surface.Refresh()

	if underCursor != "" {
		m.cursorOn(underCursor)
	}
	if _, ok := m.surface.CurrentSelectionPath(); hadSelection && !ok {
		for i, item := range m.surface.Items() {
			if item.Kind == picker.ItemFile && item.Entry.Path == selected {
				m.surface.Click(i)
				break
			}
		}
	}
}

func (m *Model) jumpTo(r rune) {
	idx := m.surface.Listing().IndexOfInitial(r)
	if idx < 0 {
		m.status.SetText(fmt.Sprintf("Nothing starts with %q", r))
		return
	}
	m.setCursor(m.surface.Position(idx))
}

func (m *Model) scan() tea.Cmd {
	if m.scanner == nil {
		m.status.SetText("Scanning is not enabled")
		return nil
	}
	if m.status.Loading() {
		return nil
	}

	target := m.surface.CurrentFolder()
	if path, ok := m.surface.CurrentSelectionPath(); ok {
		target = path
	}

	tick := m.status.SetLoading(true)
	total, err := m.scanner.Scan(m.ctx, target, m.scanFinished)
	if err != nil {
		m.status.SetLoading(false)
		m.status.SetError(err)
		return nil
	}
	m.status.SetText(fmt.Sprintf("Scanning %d items in %s", total, target))
	return tick
}

// scanFinished runs on the program loop
func (m *Model) scanFinished(path string, ok bool) {
	m.status.SetLoading(false)
	if ok {
		m.status.SetText("Scanned " + path)
		return
	}
	m.status.SetText("Scan incomplete: " + path)
}

func (m *Model) resolve(path string, ok bool) {
	m.result = path
	m.resultOK = ok
	m.done = true
}

func (m *Model) folderChanged(path string) {
	m.cursor = 0
	m.offset = 0
	m.jumping = false
	if m.watcher != nil {
		if err := m.watcher.Watch(path); err != nil {
			m.logger.With(log.F("directory", path)).WithError(err).Debug("cannot watch folder")
		}
	}
}

func (m *Model) selectionChanged(path string) {
	m.logger.With(log.F("selection", path)).Debug("selection changed")
}

// cursorOn moves the cursor to the row of path, if listed
func (m *Model) cursorOn(path string) {
	for i, item := range m.surface.Items() {
		if item.Kind != picker.ItemBack && item.Entry.Path == path {
			m.setCursor(i)
			return
		}
	}
}

func (m *Model) setCursor(pos int) {
	n := m.surface.Len()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(pos, 0), n-1)
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	m.offset = components.ScrollOffset(m.cursor, m.offset, m.height, m.surface.Len())
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.WatchClosedMsg{}
		}
		return messages.WatchEventMsg{Event: ev}
	}
}

// Result returns the picked path. For a modal it is the Confirm outcome;
// a browser reports its selection.
func (m *Model) Result() (string, bool) {
	if m.modal != nil {
		return m.result, m.resultOK
	}
	return m.surface.CurrentSelectionPath()
}

// Done reports whether a modal picker was resolved
func (m *Model) Done() bool {
	return m.done
}

// Getters
func (m *Model) Items() []picker.Item {
	return m.surface.Items()
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Offset() int {
	return m.offset
}

func (m *Model) Height() int {
	return m.height
}

func (m *Model) Width() int {
	return m.width
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) Focus() common.Focus {
	return m.focus
}

// CurrentDir returns the folder on display
func (m *Model) CurrentDir() string {
	return m.surface.CurrentFolder()
}

func (m *Model) Selection() (string, bool) {
	return m.surface.CurrentSelectionPath()
}

func (m *Model) ConfirmEnabled() bool {
	return m.confirmEnabled
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

// Err returns why the current folder could not be read, if it could not
func (m *Model) Err() error {
	if s := m.surface.Session(); s != nil {
		return s.ListErr()
	}
	return nil
}

// programPoster sends posted functions to a running program as PostMsg
type programPoster struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (p *programPoster) bind(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

func (p *programPoster) Post(fn func()) bool {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send == nil {
		return false
	}
	send(messages.PostMsg{Fn: fn})
	return true
}

// Run runs m until it quits. The watcher, if any, is stopped on return.
func Run(m *Model, opts ...tea.ProgramOption) (*Model, error) {
	p := tea.NewProgram(m, opts...)
	m.poster.bind(p.Send)
	defer m.poster.bind(nil)
	if m.watcher != nil {
		defer m.watcher.Stop()
	}

	if _, err := p.Run(); err != nil {
		return m, fmt.Errorf("error running picker: %w", err)
	}
	return m, nil
}
