package mediascan

import (
	"context"
	"io"
	"net/url"
	"sync"

	serr "fpick/internal/errors"
	"fpick/internal/picker"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// DirectoryMIME is recorded for folders
const DirectoryMIME = "inode/directory"

// MimeIndex is an in-process media index keyed by path. It sniffs
// content types with mimetype, reads EXIF dates of photos and is safe for
// concurrent use.
type MimeIndex struct {
	fs afero.Fs

	mu      sync.RWMutex
	entries map[string]Media
}

// NewMimeIndex creates an empty index reading through fs
func NewMimeIndex(fs afero.Fs) *MimeIndex {
	return &MimeIndex{fs: fs, entries: make(map[string]Media)}
}

// Index records the MIME type of path and returns a file:// uri for it
func (m *MimeIndex) Index(ctx context.Context, path string) (string, error) {
	indexed, _, err := m.record(ctx, path)
	if err != nil {
		return "", err
	}
	return fileURI(indexed), nil
}

// record indexes path and returns the key it was stored under
func (m *MimeIndex) record(ctx context.Context, path string) (string, Media, error) {
	if err := ctx.Err(); err != nil {
		return "", Media{}, err
	}
	e, err := picker.Stat(m.fs, path)
	if err != nil {
		return "", Media{}, err
	}

	media := Media{MIME: DirectoryMIME}
	if !e.Dir {
		if media, err = m.sniff(e.Path); err != nil {
			return "", Media{}, err
		}
	}

	m.mu.Lock()
	m.entries[e.Path] = media
	m.mu.Unlock()
	return e.Path, media, nil
}

func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

func (m *MimeIndex) sniff(path string) (Media, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return Media{}, serr.NewFileError("cannot open", path, serr.ReadFailed, err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return Media{}, serr.NewFileError("failed to detect MIME type", path, serr.ReadFailed, err)
	}
	media := Media{MIME: detected.String()}
	if hasEXIF(media.MIME) {
		if _, err := f.Seek(0, io.SeekStart); err == nil {
			readEXIF(f, &media)
		}
	}
	return media, nil
}

// Lookup returns the MIME type recorded for path
func (m *MimeIndex) Lookup(path string) (string, bool) {
	media, ok := m.Media(path)
	return media.MIME, ok
}

// Media returns everything recorded for path
func (m *MimeIndex) Media(path string) (Media, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	media, ok := m.entries[path]
	return media, ok
}

// Len returns the number of indexed paths
func (m *MimeIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Snapshot returns the MIME type of every indexed path
func (m *MimeIndex) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v.MIME
	}
	return out
}
