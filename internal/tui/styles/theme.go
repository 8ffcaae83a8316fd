package styles

import "github.com/charmbracelet/lipgloss"

// Colors are the configurable theme colors, as lipgloss color strings
type Colors struct {
	Primary  string
	Success  string
	Warning  string
	Error    string
	Info     string
	Emphasis string
	Border   string
}

// DefaultColors matches the "default" theme of the configuration
var DefaultColors = Colors{
	Primary:  "213",
	Success:  "114",
	Warning:  "220",
	Error:    "196",
	Info:     "39",
	Emphasis: "212",
	Border:   "213",
}

// Theme defines the core UI styles
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Folder     lipgloss.Style
	File       lipgloss.Style
	Back       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Button     lipgloss.Style
	Focused    lipgloss.Style
	Disabled   lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
}

// New builds a theme from colors. Empty colors fall back to DefaultColors.
func New(c Colors) Theme {
	c = c.withDefaults()
	button := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Primary)).
			MarginBottom(1),
		Folder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)).
			Bold(true),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Back: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Border)).
			Italic(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Button: button.
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color(c.Border)),
		Focused: button.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(c.Primary)).
			Bold(true),
		Disabled: button.
			Foreground(lipgloss.Color(c.Border)).
			Strikethrough(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Emphasis)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Warning)),
	}
}

// Default is the theme used when none is configured
var Default = New(DefaultColors)

func (c Colors) withDefaults() Colors {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.Primary, DefaultColors.Primary)
	fill(&c.Success, DefaultColors.Success)
	fill(&c.Warning, DefaultColors.Warning)
	fill(&c.Error, DefaultColors.Error)
	fill(&c.Info, DefaultColors.Info)
	fill(&c.Emphasis, DefaultColors.Emphasis)
	fill(&c.Border, DefaultColors.Border)
	return c
}
