package mediascan

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

// Media is what the index knows about one path
type Media struct {
	MIME   string
	Taken  time.Time // zero unless the file carries an EXIF date
	Camera string
}

var registerParsers sync.Once

// exifTypes carry EXIF blocks worth decoding
var exifTypes = map[string]bool{
	"image/jpeg": true,
	"image/tiff": true,
}

func hasEXIF(mime string) bool {
	base, _, _ := strings.Cut(mime, ";")
	return exifTypes[base]
}

// readEXIF fills the capture date and camera model from r. Files without
// EXIF data leave media unchanged.
func readEXIF(r io.Reader, media *Media) {
	registerParsers.Do(func() { exif.RegisterParsers(mknote.All...) })

	x, err := exif.Decode(r)
	if err != nil {
		return
	}
	if t, err := x.DateTime(); err == nil {
		media.Taken = t
	}
	if model, err := x.Get(exif.Model); err == nil {
		if s, err := model.StringVal(); err == nil {
			media.Camera = strings.TrimSpace(s)
		}
	}
}
