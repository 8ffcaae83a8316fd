package views

import (
	"strings"

	"fpick/internal/tui/common"
	"fpick/internal/tui/components"
	"fpick/internal/tui/styles"
)

const (
	ConfirmLabel = "Confirm"
	CancelLabel  = "Cancel"
)

// RenderMainView renders the whole picker screen
func RenderMainView(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(m, theme))
	sb.WriteString("\n")

	fileList := components.NewFileList(theme)
	fileList.SetItems(m.Items())
	fileList.SetCursor(m.Cursor())
	if path, ok := m.Selection(); ok {
		fileList.SetSelected(path)
	}

	browser := components.NewFileBrowser(fileList, m.Width(), m.Height())
	browser.SetOffset(m.Offset())
	browser.SetStatus(m.StatusView())
	sb.WriteString(browser.View())

	if m.Mode() == common.Pick {
		sb.WriteString("\n\n" + RenderButtons(m, theme))
	}

	if help := m.HelpView(); help != "" {
		sb.WriteString("\n\n" + theme.Help.Render(help))
	}

	return theme.App.Render(sb.String())
}

func renderHeader(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("fpick"))
	sb.WriteString("\n")
	sb.WriteString(theme.Unselected.Render("Directory: " + m.CurrentDir()))
	if path, ok := m.Selection(); ok {
		sb.WriteString("\n")
		sb.WriteString(theme.Selected.Render("Selected: " + path))
	}
	if err := m.Err(); err != nil {
		sb.WriteString("\n")
		sb.WriteString(theme.Error.Render(err.Error()))
	}
	return sb.String()
}

// RenderButtons renders the Confirm and Cancel controls of a modal picker
func RenderButtons(m common.ModelReader, theme styles.Theme) string {
	confirm := theme.Button
	switch {
	case !m.ConfirmEnabled():
		confirm = theme.Disabled
	case m.Focus() == common.FocusConfirm:
		confirm = theme.Focused
	}

	cancel := theme.Button
	if m.Focus() == common.FocusCancel {
		cancel = theme.Focused
	}

	return confirm.Render(ConfirmLabel) + cancel.Render(CancelLabel)
}
