package components

import (
	"fpick/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text    string
	isError bool
	theme   styles.Theme
	spinner spinner.Model
	loading bool
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Status

	return &StatusBar{
		theme:   theme,
		spinner: s,
	}
}

// SetLoading shows the spinner and returns the command that animates it
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

func (s *StatusBar) SetError(err error) {
	if err == nil {
		s.SetText("")
		return
	}
	s.text = err.Error()
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	var style lipgloss.Style
	if s.isError {
		style = s.theme.Error
	} else {
		style = s.theme.Status
	}
	if s.loading {
		return s.spinner.View() + " " + style.Render(s.text)
	}
	return style.Render(s.text)
}
