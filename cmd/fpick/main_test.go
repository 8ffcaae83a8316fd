package main

import (
	"bytes"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"fpick/internal/storage"
	"fpick/pkg/testutils"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against fs with an empty config
func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	prev := newFs
	newFs = func() afero.Fs { return fs }
	t.Cleanup(func() { newFs = prev })

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return testutils.StripANSI(out.String()), err
}

func sdcard(t *testing.T) afero.Fs {
	return testutils.NewMemFs(t, testutils.SdcardTree())
}

func TestLsCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "default filter",
			args:     []string{"ls", "/sdcard"},
			contains: []string{"/sdcard", "* ", "Music/", "a.txt", "b.txt"},
			excludes: []string{".hidden.txt", ".config"},
		},
		{
			name:     "hidden",
			args:     []string{"ls", "--hidden", "/sdcard"},
			contains: []string{".hidden.txt", ".config/"},
		},
		{
			name:     "root flag",
			args:     []string{"--root", "/sdcard/Photos", "ls"},
			contains: []string{"/sdcard/Photos", "Trips/", "img.jpg"},
			excludes: []string{"a.txt"},
		},
		{
			name:     "empty folder",
			args:     []string{"ls", "/sdcard/Music"},
			contains: []string{"(empty)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, sdcard(t), tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestLsMarksSelectable(t *testing.T) {
	out, err := run(t, sdcard(t), "ls", "--files", "/sdcard")
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		if strings.HasSuffix(line, "/") {
			assert.True(t, strings.HasPrefix(line, " "), "folders cannot be picked: %q", line)
		} else {
			assert.True(t, strings.HasPrefix(line, "*"), "files can be picked: %q", line)
		}
	}
}

func TestLsInvalidFolder(t *testing.T) {
	_, err := run(t, sdcard(t), "ls", "/nowhere")
	assert.Error(t, err)
}

func TestWalkCommand(t *testing.T) {
	out, err := run(t, sdcard(t), "walk", "--depth", "1", "/sdcard")
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/Music\n/sdcard/Photos\n/sdcard/a.txt\n/sdcard/b.txt\n", out)

	out, err = run(t, sdcard(t), "walk", "--self", "/sdcard/Photos")
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/Photos\n/sdcard/Photos/Trips\n/sdcard/Photos/img.jpg\n/sdcard/Photos/notes.txt\n", out)
}

func TestMD5Command(t *testing.T) {
	out, err := run(t, sdcard(t), "md5", "/sdcard/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "0cc175b9c0f1b6a831c399e269772661  /sdcard/a.txt\n", out)

	_, err = run(t, sdcard(t), "md5", "/sdcard/Music")
	assert.Error(t, err)
}

func TestCopyCommand(t *testing.T) {
	fs := sdcard(t)

	_, err := run(t, fs, "cp", "/sdcard/a.txt", "/sdcard/new/a.txt")
	assert.Error(t, err, "missing parents are not created by default")

	out, err := run(t, fs, "cp", "-p", "/sdcard/a.txt", "/sdcard/new/a.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Copied")

	data, err := afero.ReadFile(fs, "/sdcard/new/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestScanCommand(t *testing.T) {
	out, err := run(t, sdcard(t), "scan", "--list", "/sdcard/Photos")
	require.NoError(t, err)
	assert.Contains(t, out, "Scanning 4 entries")
	assert.Contains(t, out, "Indexed 4 entries in /sdcard/Photos")
	assert.Contains(t, out, "inode/directory")

	_, err = run(t, sdcard(t), "scan", "/sdcard/gone")
	assert.Error(t, err)
}

func TestScanCommandStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "media.db")

	_, err := run(t, sdcard(t), "scan", "--db", db, "/sdcard/Photos")
	require.NoError(t, err)
	_, err = run(t, sdcard(t), "scan", "--db", db, "/sdcard/Music")
	require.NoError(t, err)

	out, err := run(t, sdcard(t), "scan", "--db", db, "--history", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "/sdcard/Music", "newest scan first")
	assert.Contains(t, lines[1], "/sdcard/Photos")
	assert.Contains(t, lines[1], "ok")

	_, err = run(t, sdcard(t), "scan", "--history", "5")
	assert.Error(t, err, "history needs a store")
}

func TestDfCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, sdcard(t), "df", dir)
	if runtime.GOOS != "linux" {
		assert.Error(t, err)
		return
	}
	require.NoError(t, err)
	assert.Contains(t, out, "MOUNT")
	assert.Contains(t, out, "AVAIL")
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "rw")

	_, err = run(t, sdcard(t), "df", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestUsageTable(t *testing.T) {
	out := testutils.StripANSI(usageTable([]storage.Volume{
		{MountPoint: "/", FSType: "ext4", Usage: storage.Usage{Total: 2000000, Free: 500000, Available: 400000}},
		{MountPoint: "/media/USB Stick", FSType: "vfat", Usage: storage.Usage{Total: 1000, ReadOnly: true}},
	}).String())

	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.Contains(l, "ext4") || strings.Contains(l, "vfat") {
			rows = append(rows, l)
		}
	}
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "2.0 MB")
	assert.Contains(t, rows[0], "1.5 MB")
	assert.Contains(t, rows[0], "rw")
	assert.Contains(t, rows[1], "/media/USB Stick")
	assert.Contains(t, rows[1], "ro")
}

func TestGlobalFlags(t *testing.T) {
	_, err := run(t, sdcard(t), "--files", "--dirs", "ls", "/sdcard")
	assert.Error(t, err)

	_, err = run(t, sdcard(t), "--select", "[", "ls", "/sdcard")
	assert.Error(t, err, "invalid glob")

	out, err := run(t, sdcard(t), "--show", "*.jpg", "ls", "/sdcard/Photos")
	require.NoError(t, err)
	assert.Contains(t, out, "img.jpg")
	assert.NotContains(t, out, "notes.txt")
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, sdcard(t), "--root", "/sdcard", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "root: /sdcard")
	assert.Contains(t, out, "select: all")

	out, err = run(t, sdcard(t), "config", "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "* default")
	assert.Contains(t, out, "  ocean")

	_, err = run(t, sdcard(t), "config", "theme", "neon")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fpick.yaml")
	prev := newFs
	t.Cleanup(func() { newFs = prev })

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "--files", "config", "init"})
	require.NoError(t, cmd.Execute())

	cmd = NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "select: files")

	cmd = NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "config", "init"})
	assert.Error(t, cmd.Execute(), "an existing file is kept")
}
