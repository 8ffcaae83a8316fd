package fsutil

import (
	"strings"
	"testing"

	serr "fpick/internal/errors"
	"fpick/internal/picker"
	"fpick/pkg/testutils"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(entries []picker.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func walkTree(t *testing.T) afero.Fs {
	return testutils.NewMemFs(t, map[string]string{
		"/root/a.txt":        "a",
		"/root/d1/b.txt":     "b",
		"/root/d1/d2/c.txt":  "c",
		"/root/d1/d2/d3/":    "",
		"/root/z/":           "",
		"/root/.hidden/x.md": "x",
	})
}

func TestSubFiles(t *testing.T) {
	fs := walkTree(t)

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "unlimited with self",
			opts: WalkOptions{IncludeSelf: true},
			want: []string{
				"/root",
				"/root/.hidden", "/root/a.txt", "/root/d1", "/root/z",
				"/root/.hidden/x.md",
				"/root/d1/b.txt", "/root/d1/d2",
				"/root/d1/d2/c.txt", "/root/d1/d2/d3",
			},
		},
		{
			name: "depth one",
			opts: WalkOptions{Depth: 1},
			want: []string{"/root/.hidden", "/root/a.txt", "/root/d1", "/root/z"},
		},
		{
			name: "depth two skips deeper levels",
			opts: WalkOptions{Depth: 2},
			want: []string{
				"/root/.hidden", "/root/a.txt", "/root/d1", "/root/z",
				"/root/.hidden/x.md",
				"/root/d1/b.txt", "/root/d1/d2",
			},
		},
		{
			name: "filter prunes folders",
			opts: WalkOptions{Depth: -1, Filter: func(e picker.Entry) bool {
				return !strings.HasPrefix(e.Name(), ".")
			}},
			want: []string{
				"/root/a.txt", "/root/d1", "/root/z",
				"/root/d1/b.txt", "/root/d1/d2",
				"/root/d1/d2/c.txt", "/root/d1/d2/d3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubFiles(fs, "/root", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(got))
		})
	}
}

func TestSubFilesEdgeCases(t *testing.T) {
	fs := walkTree(t)

	_, err := SubFiles(fs, "/nope", WalkOptions{})
	assert.True(t, serr.IsFileNotFound(err))

	got, err := SubFiles(fs, "/root/a.txt", WalkOptions{IncludeSelf: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/a.txt"}, paths(got))

	got, err = SubFiles(fs, "/root/z", WalkOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.True(t, Exists(fs, "/root/d1"))
	assert.False(t, Exists(fs, "/root/missing"))
}

func TestSuffix(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":        "jpg",
		"archive.tar.gz":   "gz",
		"README":           "",
		"trailing.":        "",
		".bashrc":          "bashrc",
		"":                 "",
		"/a.dir/noext":     "",
		"/sdcard/song.MP3": "MP3",
	}
	for in, want := range tests {
		assert.Equal(t, want, Suffix(in), in)
	}
}

func TestMD5(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/f/hello.txt": "hello",
		"/f/empty":     "",
	})

	sum, err := MD5(fs, "/f/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", sum)

	sum, err = MD5(fs, "/f/empty")
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", sum)

	_, err = MD5(fs, "/f")
	assert.Error(t, err)
	_, err = MD5(fs, "/f/missing")
	assert.True(t, serr.IsFileNotFound(err))
}

func TestCopyFile(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/src/data.bin": "payload",
		"/dst/old.bin":  "previous content that is longer",
	})

	require.NoError(t, CopyFile(fs, "/src/data.bin", "/dst/old.bin", false))
	got, err := afero.ReadFile(fs, "/dst/old.bin")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got), "existing targets are truncated")

	err = CopyFile(fs, "/src/data.bin", "/new/dir/data.bin", false)
	assert.True(t, serr.IsFileNotFound(err))

	require.NoError(t, CopyFile(fs, "/src/data.bin", "/new/dir/data.bin", true))
	got, err = afero.ReadFile(fs, "/new/dir/data.bin")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	assert.Error(t, CopyFile(fs, "/src/missing", "/dst/x", true))
	assert.Error(t, CopyFile(fs, "/src", "/dst/x", true))
}
