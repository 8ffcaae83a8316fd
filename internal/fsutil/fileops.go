package fsutil

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	serr "fpick/internal/errors"
	"fpick/internal/picker"

	"github.com/spf13/afero"
)

// Suffix returns the text after the last dot of name, or "" when there is
// no dot or the dot ends the name.
func Suffix(name string) string {
	name = filepath.Base(name)
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return ""
	}
	return name[dot+1:]
}

// MD5 returns the hex digest of a regular file
func MD5(fs afero.Fs, path string) (string, error) {
	e, err := picker.Stat(fs, path)
	if err != nil {
		return "", err
	}
	if e.Dir {
		return "", serr.NewFileError("not a regular file", e.Path, serr.InvalidPath, nil)
	}

	f, err := fs.Open(e.Path)
	if err != nil {
		return "", serr.NewFileError("cannot open", e.Path, serr.ReadFailed, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", serr.NewFileError("cannot read", e.Path, serr.ReadFailed, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CopyFile copies src over dst. A missing parent of dst is created only
// when createParent is set.
func CopyFile(fs afero.Fs, src, dst string, createParent bool) error {
	from, err := picker.Stat(fs, src)
	if err != nil {
		return err
	}
	if from.Dir {
		return serr.NewFileError("cannot copy a folder", from.Path, serr.InvalidPath, nil)
	}

	parent := filepath.Dir(dst)
	if _, err := fs.Stat(parent); err != nil {
		if !os.IsNotExist(err) || !createParent {
			return serr.NewFileError("target folder missing", parent, serr.FileNotFound, err)
		}
		if err := fs.MkdirAll(parent, 0755); err != nil {
			return serr.NewFileError("cannot create target folder", parent, serr.FileAccessDenied, err)
		}
	}

	in, err := fs.Open(from.Path)
	if err != nil {
		return serr.NewFileError("cannot open", from.Path, serr.ReadFailed, err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return serr.NewFileError("cannot create", dst, serr.FileAccessDenied, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return serr.NewFileError("copy failed", dst, serr.ReadFailed, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return serr.NewFileError("sync failed", dst, serr.ReadFailed, err)
	}
	return out.Close()
}
