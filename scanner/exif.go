package scanner

import (
	"fmt"
	"time"

	exiftool "github.com/barasher/go-exiftool"

	"github.com/tiMaxal/pairs3d/logging"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// ExifTimestamper reads the capture time (DateTimeOriginal) from image
// metadata via exiftool. Cameras write both frames of a stereo rig with the
// same capture time even when the files land on disk at different moments,
// so this can pair more reliably than modification time.
type ExifTimestamper struct {
	et *exiftool.Exiftool
}

// NewExifTimestamper starts a long-lived exiftool process. Callers must Close.
func NewExifTimestamper() (*ExifTimestamper, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("cannot start exiftool: %w", err)
	}
	return &ExifTimestamper{et: et}, nil
}

// Close shuts the exiftool process down.
func (e *ExifTimestamper) Close() {
	if e.et != nil {
		if err := e.et.Close(); err != nil {
			logging.LogWarning("closing exiftool: %v", err)
		}
	}
}

// Timestamp returns the capture time of the image, or an error when the file
// carries no usable DateTimeOriginal tag. Callers fall back to mtime.
func (e *ExifTimestamper) Timestamp(path string) (time.Time, error) {
	metas := e.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return time.Time{}, fmt.Errorf("no metadata for %s", path)
	}
	meta := metas[0]
	if meta.Err != nil {
		return time.Time{}, fmt.Errorf("exiftool failed on %s: %w", path, meta.Err)
	}

	raw, err := meta.GetString("DateTimeOriginal")
	if err != nil {
		return time.Time{}, fmt.Errorf("no DateTimeOriginal in %s: %w", path, err)
	}

	ts, err := time.ParseInLocation(exifTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable DateTimeOriginal %q in %s: %w", raw, path, err)
	}
	return ts, nil
}
