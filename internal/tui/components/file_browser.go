package components

import (
	"github.com/charmbracelet/bubbles/viewport"
)

// FileBrowser shows a FileList through a scrolling viewport with a status
// bar underneath.
type FileBrowser struct {
	viewport  viewport.Model
	fileList  *FileList
	statusBar string
	offset    int
}

func NewFileBrowser(fileList *FileList, width, height int) *FileBrowser {
	return &FileBrowser{
		viewport: viewport.New(width, height),
		fileList: fileList,
	}
}

func (fb *FileBrowser) SetSize(width, height int) {
	fb.viewport.Width = width
	fb.viewport.Height = height
}

// SetOffset sets the first visible row
func (fb *FileBrowser) SetOffset(offset int) {
	fb.offset = offset
}

// SetStatus sets the rendered status line
func (fb *FileBrowser) SetStatus(status string) {
	fb.statusBar = status
}

func (fb *FileBrowser) View() string {
	fb.viewport.SetContent(fb.fileList.View())
	fb.viewport.SetYOffset(fb.offset)

	if fb.statusBar == "" {
		return fb.viewport.View()
	}
	return fb.viewport.View() + "\n" + fb.statusBar
}

// ScrollOffset returns the offset that keeps cursor visible in a window
// of height rows out of total, starting from the current offset.
func ScrollOffset(cursor, offset, height, total int) int {
	if height <= 0 {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if maxOffset := max(0, total-height); offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
