//go:build linux

package storage

import (
	"path/filepath"

	serr "fpick/internal/errors"

	"golang.org/x/sys/unix"
)

// UsageOf returns the capacity of the filesystem holding path
func UsageOf(path string) (Usage, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Usage{}, serr.NewFileError("invalid path", path, serr.InvalidPath, err)
	}

	var st unix.Statfs_t
	if err := unix.Statfs(abs, &st); err != nil {
		kind := serr.ReadFailed
		switch err {
		case unix.ENOENT:
			kind = serr.FileNotFound
		case unix.EACCES, unix.EPERM:
			kind = serr.FileAccessDenied
		}
		return Usage{}, serr.NewFileError("statfs failed", abs, kind, err)
	}

	bsize := uint64(st.Bsize)
	return Usage{
		Path:      abs,
		Total:     st.Blocks * bsize,
		Free:      st.Bfree * bsize,
		Available: st.Bavail * bsize,
		ReadOnly:  uint64(st.Flags)&unix.ST_RDONLY != 0,
	}, nil
}
