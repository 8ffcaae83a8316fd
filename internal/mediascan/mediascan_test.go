package mediascan

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fpick/internal/worker"
	"fpick/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pngHeader  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	jpegHeader = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
)

type result struct {
	path string
	ok   bool
}

// loopPoster runs posted functions on a dispatcher loop for the test
func loopPoster(t *testing.T) *worker.Dispatcher {
	t.Helper()
	d := worker.NewDispatcher(4)
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(cancel)
	return d
}

func awaitResult(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("scan did not complete")
		return result{}
	}
}

// failingIndexer rejects paths containing a marker
type failingIndexer struct {
	inner  Indexer
	marker string
	mu     sync.Mutex
	seen   []string
}

func (f *failingIndexer) Index(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.seen = append(f.seen, path)
	f.mu.Unlock()
	if strings.Contains(path, f.marker) {
		return "", errors.New("rejected")
	}
	return f.inner.Index(ctx, path)
}

func TestScanTree(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/media/Photos/a.png":      pngHeader,
		"/media/Photos/b.jpg":      jpegHeader,
		"/media/Photos/Old/c.txt":  "plain text",
		"/media/Music/":            "",
		"/media/readme.md":         "# readme",
		"/elsewhere/untouched.png": pngHeader,
	})
	index := NewMimeIndex(fs)
	done := make(chan result, 1)
	var deliveredOnLoop bool

	d := loopPoster(t)
	poster := worker.PosterFunc(func(fn func()) bool {
		return d.Post(func() {
			deliveredOnLoop = true
			fn()
		})
	})
	s := NewScanner(fs, index, poster, WithWorkers(2))

	total, err := s.Scan(context.Background(), "/media", func(path string, ok bool) {
		done <- result{path, ok}
	})
	require.NoError(t, err)
	assert.Equal(t, 8, total)

	r := awaitResult(t, done)
	assert.Equal(t, "/media", r.path)
	assert.True(t, r.ok)
	assert.True(t, deliveredOnLoop)

	assert.Equal(t, 8, index.Len())
	mime, ok := index.Lookup("/media/Photos/a.png")
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)
	mime, _ = index.Lookup("/media/Photos/b.jpg")
	assert.Equal(t, "image/jpeg", mime)
	mime, _ = index.Lookup("/media/Music")
	assert.Equal(t, DirectoryMIME, mime)
	mime, _ = index.Lookup("/media/Photos/Old/c.txt")
	assert.True(t, strings.HasPrefix(mime, "text/plain"))
	_, ok = index.Lookup("/elsewhere/untouched.png")
	assert.False(t, ok)
}

func TestScanSingleFile(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{"/media/a.png": pngHeader})
	index := NewMimeIndex(fs)
	done := make(chan result, 1)

	total, err := NewScanner(fs, index, loopPoster(t)).Scan(context.Background(), "/media/a.png", func(path string, ok bool) {
		done <- result{path, ok}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, result{"/media/a.png", true}, awaitResult(t, done))
	assert.Equal(t, map[string]string{"/media/a.png": "image/png"}, index.Snapshot())
}

func TestScanPartialFailure(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/media/good.png": pngHeader,
		"/media/bad.png":  pngHeader,
		"/media/sub/x.md": "x",
	})
	idx := &failingIndexer{inner: NewMimeIndex(fs), marker: "bad"}
	done := make(chan result, 1)

	total, err := NewScanner(fs, idx, loopPoster(t), WithWorkers(1)).Scan(context.Background(), "/media", func(path string, ok bool) {
		done <- result{path, ok}
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	r := awaitResult(t, done)
	assert.False(t, r.ok, "one failed path fails the whole scan")
	idx.mu.Lock()
	assert.Len(t, idx.seen, 5, "every path is still attempted")
	idx.mu.Unlock()
}

func TestScanMissingPath(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{"/media/a.png": pngHeader})
	var got []result

	total, err := NewScanner(fs, NewMimeIndex(fs), nil).Scan(context.Background(), "/media/nope", func(path string, ok bool) {
		got = append(got, result{path, ok})
	})
	assert.Error(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, []result{{"/media/nope", false}}, got, "reported synchronously")
}

func TestScanDepth(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/m/a/b/c.txt": "c",
	})
	done := make(chan result, 1)
	total, err := NewScanner(fs, NewMimeIndex(fs), loopPoster(t), WithDepth(1)).Scan(context.Background(), "/m", func(path string, ok bool) {
		done <- result{path, ok}
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "the folder itself and its direct child")
	assert.True(t, awaitResult(t, done).ok)
}

func TestMimeIndexCancelled(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{"/a.png": pngHeader})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMimeIndex(fs).Index(ctx, "/a.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMimeIndexURI(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{"/with space/a.png": pngHeader})
	uri, err := NewMimeIndex(fs).Index(context.Background(), "/with space/a.png")
	require.NoError(t, err)
	assert.Equal(t, "file:///with%20space/a.png", uri)
}

func TestMimeIndexMedia(t *testing.T) {
	fs := testutils.NewMemFs(t, map[string]string{
		"/dcim/plain.jpg": jpegHeader,
		"/dcim/notes.txt": "plain text",
	})
	index := NewMimeIndex(fs)
	for _, p := range []string{"/dcim/plain.jpg", "/dcim/notes.txt", "/dcim"} {
		_, err := index.Index(context.Background(), p)
		require.NoError(t, err)
	}

	media, ok := index.Media("/dcim/plain.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", media.MIME)
	assert.True(t, media.Taken.IsZero(), "no EXIF block, no date")
	assert.Empty(t, media.Camera)

	media, _ = index.Media("/dcim")
	assert.Equal(t, Media{MIME: DirectoryMIME}, media)

	_, ok = index.Media("/dcim/missing.jpg")
	assert.False(t, ok)
}

func TestHasEXIF(t *testing.T) {
	assert.True(t, hasEXIF("image/jpeg"))
	assert.True(t, hasEXIF("image/tiff"))
	assert.False(t, hasEXIF("image/png"))
	assert.False(t, hasEXIF("text/plain; charset=utf-8"))
}
