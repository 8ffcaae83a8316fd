//go:build !linux

package storage

import (
	serr "fpick/internal/errors"
)

// UsageOf is only implemented on Linux
func UsageOf(path string) (Usage, error) {
	return Usage{}, serr.NewFileError("volume usage not supported on this platform", path, serr.Unsupported, nil)
}
