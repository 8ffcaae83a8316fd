package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fpick/internal/gui"
	"fpick/internal/log"
	"fpick/internal/mediascan"
	"fpick/internal/picker"
	"fpick/internal/tui"
	"fpick/internal/tui/styles"
	"fpick/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errCancelled ends a pick that returned nothing
var errCancelled = errors.New("pick cancelled")

// NewBrowseCmd creates the browse command
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [root]",
		Short: "Browse a folder tree in the terminal",
		Long:  `Browse the folder tree below root. Selecting a file or folder shows it in the header; scanning feeds it to the media index.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := newFs()
			surface, err := attachSurface(fs, rootArg(args), cfg.Picker.BackHeader)
			if err != nil {
				return err
			}
			opts, closeStore := tuiOptions(fs)
			defer closeStore()
			m := tui.New(surface, opts...)
			m, err = tui.Run(m, tea.WithAltScreen())
			if err != nil {
				return err
			}
			if path, ok := m.Result(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

// NewPickCmd creates the pick command
func NewPickCmd() *cobra.Command {
	var useGUI bool

	cmd := &cobra.Command{
		Use:   "pick [root]",
		Short: "Pick a file and print its path",
		Long: `Open a modal picker on root and print the confirmed path on stdout.
Cancelling prints nothing and exits with status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := newFs()
			var (
				path string
				ok   bool
				err  error
			)
			if useGUI {
				cfg.Picker.Root = rootArg(args)
				path, ok, err = gui.Pick(cfg, fs)
			} else {
				path, ok, err = pickInTerminal(fs, rootArg(args))
			}
			if err != nil {
				return err
			}
			if !ok {
				return errCancelled
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&useGUI, "gui", "g", false, "pick in a window instead of the terminal")
	return cmd
}

func pickInTerminal(fs afero.Fs, root string) (string, bool, error) {
	surface, err := attachSurface(fs, root, true)
	if err != nil {
		return "", false, err
	}
	// stdout carries only the result
	opts, closeStore := tuiOptions(fs)
	defer closeStore()
	m := tui.NewPicker(surface, opts...)
	m, err = tui.Run(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	if err != nil {
		return "", false, err
	}
	path, ok := m.Result()
	return path, ok, nil
}

func attachSurface(fs afero.Fs, root string, backHeader bool) (*picker.Surface, error) {
	f, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	if flags.logFile == "" {
		configureLogging(io.Discard)
	}

	var opts []picker.SurfaceOption
	if backHeader {
		opts = append(opts, picker.WithBackHeader())
	}
	surface := picker.NewSurface(fs, opts...)
	if err := surface.Attach(root, f); err != nil {
		return nil, err
	}
	return surface, nil
}

// openIndexer returns the media index scans feed, kept in the SQLite store
// named by scan.db when there is one
func openIndexer(fs afero.Fs) (mediascan.Indexer, func()) {
	index := mediascan.NewMimeIndex(fs)
	if cfg.Scan.DB == "" {
		return index, func() {}
	}
	store, err := mediascan.OpenStore(cfg.Scan.DB)
	if err != nil {
		log.LogWithError(err).Warn("Media store disabled")
		return index, func() {}
	}
	return mediascan.NewStoredIndex(index, store), func() { store.Close() }
}

func tuiOptions(fs afero.Fs) ([]tui.Option, func()) {
	indexer, closeStore := openIndexer(fs)
	opts := []tui.Option{
		tui.WithTheme(styles.New(styles.Colors{
			Primary:  cfg.Theme.Primary,
			Success:  cfg.Theme.Success,
			Warning:  cfg.Theme.Warning,
			Error:    cfg.Theme.Error,
			Info:     cfg.Theme.Info,
			Emphasis: cfg.Theme.Emphasis,
			Border:   cfg.Theme.Border,
		})),
		tui.WithIndexer(fs, indexer,
			mediascan.WithWorkers(cfg.Scan.Workers),
			mediascan.WithDepth(cfg.Scan.Depth)),
	}

	if cfg.Picker.Watch {
		w, err := watch.New()
		if err != nil {
			log.LogWithError(err).Warn("Folder watching disabled")
		} else {
			opts = append(opts, tui.WithWatcher(w))
		}
	}
	return opts, closeStore
}
