package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fpick/internal/picker"
	"fpick/internal/tui/messages"
	"fpick/internal/watch"
	"fpick/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// next runs cmd with a deadline, as the program would
func next(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func TestWatchedFolderOnDisk(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	testutils.CreateTestFilesWithContent(t, tmpDir, map[string]string{
		"test1.txt":      "content1",
		"dir1/inner.txt": "inner",
	})

	w, err := watch.New()
	require.NoError(t, err)

	s := picker.NewSurface(afero.NewOsFs(), picker.WithLogger(quiet()))
	require.NoError(t, s.Attach(tmpDir, picker.FilesFilter))
	m := New(s, WithWatcher(w), WithLogger(quiet()))
	t.Cleanup(w.Stop)

	wait := m.Init()
	alsrt.Equal(t, tmpDir, w.Dir())
	alsrt.Contains(t, m.View(), "Directory: "+tmpDir)

	t.Run("new file appears", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.txt"), []byte("x"), 0o644))

		msg := next(t, wait)
		ev, ok := msg.(messages.WatchEventMsg)
		require.True(t, ok, "got %T", msg)
		alsrt.Equal(t, tmpDir, ev.Event.Dir)

		_, cmd := m.Update(ev)
		alsrt.NotNil(t, cmd)
		m.Update(messages.RefreshMsg{Gen: m.refreshGen})
		alsrt.Equal(t, []string{"dir1", "test1.txt", "test2.txt"}, labels(m))
	})

	t.Run("watch follows navigation", func(t *testing.T) {
		press(m, "enter")
		alsrt.Equal(t, filepath.Join(tmpDir, "dir1"), m.CurrentDir())
		alsrt.Equal(t, filepath.Join(tmpDir, "dir1"), w.Dir())
		alsrt.Contains(t, m.View(), "inner.txt")

		press(m, "h")
		alsrt.Equal(t, tmpDir, w.Dir())
	})
}
