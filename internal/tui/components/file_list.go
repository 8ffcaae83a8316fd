package components

import (
	"fmt"
	"strings"

	"fpick/internal/picker"
	"fpick/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

const timeLayout = "2006-01-02 15:04"

// FileList renders the rows of a picker surface with a cursor
type FileList struct {
	items    []picker.Item
	cursor   int
	selected string
	theme    styles.Theme
}

func NewFileList(theme styles.Theme) *FileList {
	return &FileList{theme: theme}
}

func (fl *FileList) SetItems(items []picker.Item) {
	fl.items = items
}

func (fl *FileList) SetCursor(cursor int) {
	fl.cursor = cursor
}

// SetSelected marks the row whose entry has path as the selection
func (fl *FileList) SetSelected(path string) {
	fl.selected = path
}

func (fl *FileList) Items() []picker.Item {
	return fl.items
}

func (fl *FileList) View() string {
	var s strings.Builder

	entries := 0
	for i, item := range fl.items {
		if item.Kind != picker.ItemBack {
			entries++
		}
		s.WriteString(fl.row(i, item))
		s.WriteString("\n")
	}
	if entries == 0 {
		s.WriteString(fl.theme.Unselected.Render("  No files found"))
		s.WriteString("\n")
	}

	return strings.TrimSuffix(s.String(), "\n")
}

func (fl *FileList) row(i int, item picker.Item) string {
	cursor := " "
	if i == fl.cursor {
		cursor = ">"
	}

	mark := " "
	name := item.Label
	details := ""
	style := fl.theme.File

	switch item.Kind {
	case picker.ItemBack:
		name = ".. " + item.Label
		style = fl.theme.Back
	case picker.ItemFolder:
		name += "/"
		style = fl.theme.Folder
		details = fmt.Sprintf(" %8s  %s", "-", item.Entry.ModTime.Format(timeLayout))
	case picker.ItemFile:
		details = fmt.Sprintf(" %8s  %s",
			humanize.Bytes(uint64(item.Entry.Size)),
			item.Entry.ModTime.Format(timeLayout))
	}

	if item.Kind != picker.ItemBack && fl.selected != "" && item.Entry.Path == fl.selected {
		mark = "*"
		style = fl.theme.Selected
	}

	return fmt.Sprintf("%s %s %s%s", cursor, mark, style.Render(name), fl.theme.Unselected.Render(details))
}
