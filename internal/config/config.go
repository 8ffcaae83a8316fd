package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	serr "fpick/internal/errors"
	"fpick/internal/picker"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines the picker defaults, scan settings, logging and theme.
type Config struct {
	Picker struct {
		Root            string   `yaml:"root"`             // Folder browsing starts from and never leaves
		BackHeader      bool     `yaml:"back_header"`      // Show a "Back" row on top of the listing
		ShowHidden      bool     `yaml:"show_hidden"`      // List dot files
		Select          string   `yaml:"select"`           // What can be picked: all, files, dirs or none
		SelectPatterns  []string `yaml:"select_patterns"`  // Globs a pickable name must match
		DisplayPatterns []string `yaml:"display_patterns"` // Globs a listed file name must match
		Watch           bool     `yaml:"watch"`            // Re-list the folder when it changes on disk
	} `yaml:"picker"`
	Scan struct {
		Workers int    `yaml:"workers"` // Parallel indexing workers
		Depth   int    `yaml:"depth"`   // Recursion limit, 0 for unlimited
		DB      string `yaml:"db"`      // SQLite file keeping the media index, empty for none
	} `yaml:"scan"`
	Log struct {
		Debug bool `yaml:"debug"` // Enable debug output
		JSON  bool `yaml:"json"`  // Emit JSON lines
	} `yaml:"log"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// Select modes accepted in picker.select
const (
	SelectAll   = "all"
	SelectFiles = "files"
	SelectDirs  = "dirs"
	SelectNone  = "none"
)

var selectModes = map[string]picker.SelectMode{
	SelectAll:   picker.SelectAll,
	SelectFiles: picker.SelectFiles,
	SelectDirs:  picker.SelectDirs,
	SelectNone:  picker.SelectNone,
}

// DefaultPath returns ~/.config/fpick/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fpick", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/fpick/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Defaults survive for every key the file leaves out
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.fillTheme()
			return cfg, nil
		}
		return nil, serr.NewConfigError("error reading config file", path, serr.ReadFailed, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, serr.NewConfigError("error parsing config file", path, serr.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.fillTheme()
	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	root, err := os.UserHomeDir()
	if err != nil {
		root = string(filepath.Separator)
	}
	cfg.Picker.Root = root
	cfg.Picker.BackHeader = true
	cfg.Picker.ShowHidden = false
	cfg.Picker.Select = SelectAll
	cfg.Picker.SelectPatterns = []string{}
	cfg.Picker.DisplayPatterns = []string{}
	cfg.Picker.Watch = true

	cfg.Scan.Workers = runtime.NumCPU() + 1
	cfg.Scan.Depth = 0

	cfg.Theme.Name = "default"
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func invalid(param, format string, args ...interface{}) error {
	return serr.NewConfigError(fmt.Sprintf(format, args...), param, serr.InvalidConfig, nil)
}

// Validate checks if the configuration is valid.
// Returns an InvalidConfig error naming the offending key.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("", "nil config")
	}

	if _, ok := selectModes[c.Picker.Select]; !ok {
		return invalid("picker.select", "invalid select mode: %q", c.Picker.Select)
	}

	for i, p := range c.Picker.SelectPatterns {
		if _, err := glob.Compile(p); err != nil {
			return invalid("picker.select_patterns", "pattern %d: %v", i, err)
		}
	}
	for i, p := range c.Picker.DisplayPatterns {
		if _, err := glob.Compile(p); err != nil {
			return invalid("picker.display_patterns", "pattern %d: %v", i, err)
		}
	}

	if c.Scan.Workers < 0 {
		return invalid("scan.workers", "workers must be >= 0")
	}
	if c.Scan.Depth < 0 {
		return invalid("scan.depth", "depth must be >= 0")
	}

	return nil
}

// Filter builds the picker filter described by the picker section
func (c *Config) Filter() (picker.Filter, error) {
	mode, ok := selectModes[c.Picker.Select]
	if !ok {
		return nil, invalid("picker.select", "invalid select mode: %q", c.Picker.Select)
	}
	f, err := picker.NewGlobFilter(mode, c.Picker.ShowHidden, c.Picker.SelectPatterns, c.Picker.DisplayPatterns)
	if err != nil {
		return nil, serr.NewConfigError("invalid pattern", "picker", serr.InvalidConfig, err)
	}
	return f, nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	cfg := defaultConfig()
	cfg.fillTheme()
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	if theme, exists := themes[name]; exists {
		return theme
	}
	return themes["default"]
}

var themes = map[string]map[string]string{
	"default": {
		"primary":  "213", // Purple
		"success":  "114", // Green
		"warning":  "220", // Yellow
		"error":    "196", // Red
		"info":     "39",  // Blue
		"emphasis": "212", // Light Pink
		"border":   "213", // Purple
	},
	"dark": {
		"primary":  "105",
		"success":  "78",
		"warning":  "214",
		"error":    "160",
		"info":     "33",
		"emphasis": "147",
		"border":   "105",
	},
	"light": {
		"primary":  "135",
		"success":  "150",
		"warning":  "222",
		"error":    "210",
		"info":     "117",
		"emphasis": "219",
		"border":   "135",
	},
	"monochrome": {
		"primary":  "245",
		"success":  "252",
		"warning":  "241",
		"error":    "232",
		"info":     "248",
		"emphasis": "255",
		"border":   "245",
	},
	"ocean": {
		"primary":  "31",  // Teal
		"success":  "36",  // Green-Blue
		"warning":  "220", // Yellow
		"error":    "196", // Red
		"info":     "33",  // Blue
		"emphasis": "51",  // Cyan
		"border":   "31",  // Teal
	},
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// fillTheme takes every color left unset from the named theme
func (c *Config) fillTheme() {
	theme := GetTheme(c.Theme.Name)
	for key, field := range map[string]*string{
		"primary":  &c.Theme.Primary,
		"success":  &c.Theme.Success,
		"warning":  &c.Theme.Warning,
		"error":    &c.Theme.Error,
		"info":     &c.Theme.Info,
		"emphasis": &c.Theme.Emphasis,
		"border":   &c.Theme.Border,
	} {
		if *field == "" {
			*field = theme[key]
		}
	}
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean"}
}
