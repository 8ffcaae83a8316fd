package main

import (
	"fmt"
	"io"
	"os"

	"fpick/internal/config"
	"fpick/internal/log"
	"fpick/internal/picker"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config

	// newFs opens the filesystem every command browses
	newFs = afero.NewOsFs
)

// globalFlags override the loaded configuration
type globalFlags struct {
	root        string
	debug       bool
	jsonLog     bool
	logFile     string
	files       bool
	dirs        bool
	hidden      bool
	selectGlobs []string
	showGlobs   []string
	noWatch     bool
}

var flags globalFlags

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfgFile, cfg, flags = "", nil, globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "fpick",
		Short: "Browse a folder tree and pick a file",
		Long: `fpick browses the folder tree below a root, in a terminal or a window,
and returns the file or folder you pick. The root is never left and only
entries accepted by the configured filter can be picked.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/fpick/config.yaml)")
	pf.StringVarP(&flags.root, "root", "r", "", "folder browsing starts from and never leaves")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&flags.jsonLog, "json-log", false, "log JSON lines")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	pf.BoolVarP(&flags.files, "files", "f", false, "only files can be picked")
	pf.BoolVarP(&flags.dirs, "dirs", "d", false, "only folders can be picked")
	pf.BoolVarP(&flags.hidden, "hidden", "a", false, "list dot files")
	pf.StringSliceVar(&flags.selectGlobs, "select", nil, "globs a pickable name must match")
	pf.StringSliceVar(&flags.showGlobs, "show", nil, "globs a listed file name must match")
	pf.BoolVar(&flags.noWatch, "no-watch", false, "do not follow changes on disk")

	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewPickCmd())
	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewWalkCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewMD5Cmd())
	rootCmd.AddCommand(NewCopyCmd())
	rootCmd.AddCommand(NewDfCmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// loadConfig reads the config file and applies the global flags
func loadConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	switch {
	case flags.files && flags.dirs:
		return fmt.Errorf("--files and --dirs are mutually exclusive")
	case flags.files:
		cfg.Picker.Select = config.SelectFiles
	case flags.dirs:
		cfg.Picker.Select = config.SelectDirs
	}
	if flags.root != "" {
		cfg.Picker.Root = flags.root
	}
	if flags.hidden {
		cfg.Picker.ShowHidden = true
	}
	if len(flags.selectGlobs) > 0 {
		cfg.Picker.SelectPatterns = flags.selectGlobs
	}
	if len(flags.showGlobs) > 0 {
		cfg.Picker.DisplayPatterns = flags.showGlobs
	}
	if flags.noWatch {
		cfg.Picker.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configureLogging(cmd.ErrOrStderr())
	applyColors(cfg)
	return nil
}

func configureLogging(w io.Writer) {
	opts := []log.Option{log.WithOutput(w)}
	if flags.logFile != "" {
		opts = []log.Option{log.WithOutput(io.Discard), log.WithFile(flags.logFile)}
	}
	if flags.jsonLog || cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	log.SetDebug(flags.debug || cfg.Log.Debug)
}

// rootArg returns the root a command works on: its argument, else the
// configured root
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Picker.Root
}

// newEnumerator lists folders with the configured filter
func newEnumerator(fs afero.Fs) (*picker.Enumerator, picker.Filter, error) {
	f, err := cfg.Filter()
	if err != nil {
		return nil, nil, err
	}
	return picker.NewEnumerator(fs, log.LogWithFields(log.F("component", "cli"))), f, nil
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
