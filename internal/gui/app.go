//go:build !nogui

package gui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fpick/internal/config"
	"fpick/internal/log"
	"fpick/internal/mediascan"
	"fpick/internal/picker"
	"fpick/internal/storage"
	"fpick/internal/watch"
	"fpick/internal/worker"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	nativedialog "github.com/sqweek/dialog"
	"github.com/spf13/afero"
)

const (
	appID        = "io.github.fpick"
	refreshDelay = 150 * time.Millisecond
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	fs         afero.Fs
	filter     picker.Filter
	logger     *log.Logger

	surface *picker.Surface
	view    *PickerView
	watcher *watch.Watcher
	loop    *worker.Dispatcher
	index   *mediascan.MimeIndex
	store   *mediascan.Store
	scanner *mediascan.Scanner

	status *widget.Label
	usage  *widget.Label

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the GUI application browsing cfg's root
func NewApp(cfg *config.Config, fs afero.Fs) (*App, error) {
	return newApp(app.NewWithID(appID), cfg, fs)
}

func newApp(fyneApp fyne.App, cfg *config.Config, fs afero.Fs) (*App, error) {
	f, err := cfg.Filter()
	if err != nil {
		return nil, err
	}

	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		fs:      fs,
		filter:  f,
		logger:  log.LogWithFields(log.F("component", "gui")),
		loop:    worker.NewDispatcher(16),
		index:   mediascan.NewMimeIndex(fs),
		status:  widget.NewLabel(""),
		usage:   widget.NewLabel(""),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	var indexer mediascan.Indexer = a.index
	if cfg.Scan.DB != "" {
		if a.store, err = mediascan.OpenStore(cfg.Scan.DB); err != nil {
			a.logger.WithError(err).Warn("Media store disabled")
		} else {
			indexer = mediascan.NewStoredIndex(a.index, a.store)
		}
	}
	a.scanner = mediascan.NewScanner(fs, indexer, a.loop,
		mediascan.WithWorkers(cfg.Scan.Workers),
		mediascan.WithDepth(cfg.Scan.Depth))

	opts := []picker.SurfaceOption{
		picker.WithLogger(a.logger),
		picker.WithObserver(picker.ObserverFuncs{
			Folder:    a.folderChanged,
			Selection: a.selectionChanged,
		}),
	}
	if cfg.Picker.BackHeader {
		opts = append(opts, picker.WithBackHeader())
	}
	a.surface = picker.NewSurface(fs, opts...)
	if err := a.surface.Attach(cfg.Picker.Root, f); err != nil {
		a.close()
		return nil, err
	}
	a.view = NewPickerView(a.surface)
	a.view.OnChanged(a.updateUsage)

	if cfg.Picker.Watch {
		if w, err := watch.New(); err != nil {
			a.logger.WithError(err).Warn("Folder watching disabled")
		} else {
			a.watcher = w
			a.folderChanged(a.surface.CurrentFolder())
		}
	}

	a.mainWindow = fyneApp.NewWindow("fpick")
	a.mainWindow.Resize(fyne.NewSize(720, 600))
	a.setupMainWindow()
	return a, nil
}

// GetMainWindow returns the main window
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

func (a *App) close() {
	a.cancel()
	if a.store != nil {
		a.store.Close()
	}
}

// Run shows the main window and blocks until it is closed
func (a *App) Run() error {
	defer a.close()
	go a.loop.Run(a.ctx)
	defer a.loop.Close()

	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			a.logger.WithError(err).Warn("Cannot start watcher")
		} else {
			go a.forwardEvents()
			defer a.watcher.Stop()
		}
	}

	a.view.Refresh()
	a.mainWindow.ShowAndRun()
	return nil
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.chooseRoot),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { a.view.Back() }),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.view.Refresh),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.SearchIcon(), a.scan),
		widget.NewToolbarAction(theme.DocumentIcon(), a.pick),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About fpick",
				"fpick browses a folder tree below a root and picks\n"+
					"a file or folder accepted by the configured filter.",
				a.mainWindow)
		}),
	)

	content := container.NewBorder(
		toolbar,
		a.createStatusBar(),
		nil,
		nil,
		a.view.Content(),
	)
	a.mainWindow.SetContent(content)
}

// createStatusBar shows the selection and the free space of the volume
func (a *App) createStatusBar() fyne.CanvasObject {
	a.status.Truncation = fyne.TextTruncateEllipsis
	return container.NewBorder(nil, nil, nil, a.usage, a.status)
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	a.logger.WithError(err).Warn(title)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.mainWindow)
}

// openRoot re-attaches the browser to root
func (a *App) openRoot(root string) error {
	var err error
	a.view.Do(func() { err = a.surface.Attach(root, a.filter) })
	if err != nil {
		a.ShowError("Cannot open folder", err)
		return err
	}
	a.view.Refresh()
	return nil
}

func (a *App) chooseRoot() {
	root, err := PromptRoot("Choose a root folder")
	if err != nil {
		if !errors.Is(err, nativedialog.ErrCancelled) {
			a.ShowError("Cannot choose folder", err)
		}
		return
	}
	a.openRoot(root)
}

// scan indexes the selection, or the folder on display
func (a *App) scan() {
	target := a.view.CurrentFolder()
	if sel, ok := a.view.Selection(); ok {
		target = sel
	}

	a.status.SetText("Scanning " + target)
	total, err := a.scanner.Scan(a.ctx, target, func(path string, ok bool) {
		if ok {
			a.status.SetText(fmt.Sprintf("Indexed %s (%d entries known)", path, a.index.Len()))
			return
		}
		a.status.SetText("Scan incomplete: " + path)
	})
	if err != nil {
		a.ShowError("Scan failed", err)
		return
	}
	a.logger.With(log.F("path", target), log.F("total", total)).Info("Scan started")
}

// pick opens a modal picker on the folder on display
func (a *App) pick() {
	_, err := ShowPickerDialog(a.fs, a.view.CurrentFolder(), a.filter, a.mainWindow, func(path string, ok bool) {
		if ok {
			a.status.SetText("Picked " + path)
		} else {
			a.status.SetText("Pick cancelled")
		}
	}, picker.WithLogger(a.logger))
	if err != nil {
		a.ShowError("Cannot open picker", err)
	}
}

func (a *App) forwardEvents() {
	for ev := range a.watcher.Events() {
		if ev.Dir != a.view.CurrentFolder() {
			continue
		}
		a.loop.PostBuffered("refresh", a.view.Refresh, refreshDelay)
	}
}

func (a *App) folderChanged(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Watch(path); err != nil {
		a.logger.With(log.F("directory", path)).WithError(err).Debug("cannot watch folder")
	}
}

func (a *App) selectionChanged(path string) {
	if path == "" {
		a.status.SetText("")
		return
	}
	a.status.SetText("Selected " + path)
}

func (a *App) updateUsage() {
	u, err := storage.UsageOf(a.view.CurrentFolder())
	if err != nil {
		a.usage.SetText("")
		return
	}
	a.usage.SetText(fmt.Sprintf("%s free of %s", humanize.Bytes(u.Available), humanize.Bytes(u.Total)))
}

// Run starts the GUI on cfg's root
func Run(cfg *config.Config, fs afero.Fs) error {
	a, err := NewApp(cfg, fs)
	if err != nil {
		return err
	}
	return a.Run()
}

// Pick shows only the modal picker and returns its outcome. Closing the
// window counts as Cancel.
func Pick(cfg *config.Config, fs afero.Fs) (string, bool, error) {
	f, err := cfg.Filter()
	if err != nil {
		return "", false, err
	}

	fyneApp := app.NewWithID(appID)
	w := fyneApp.NewWindow("fpick")
	w.Resize(fyne.NewSize(560, 620))
	w.SetContent(layout.NewSpacer())

	var path string
	var ok bool
	if _, err := ShowPickerDialog(fs, cfg.Picker.Root, f, w, func(p string, confirmed bool) {
		path, ok = p, confirmed
		fyneApp.Quit()
	}); err != nil {
		return "", false, err
	}
	w.ShowAndRun()
	return path, ok, nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
