// Package mediadate extracts the creation date from media files. A
// failure here is a routing signal for the organizer (the file goes to
// the unrecognized folder), not a failure of the run.
package mediadate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/rwcarlsen/goexif/exif"
)

// ErrUnknownFormat is returned for extensions no extractor handles.
var ErrUnknownFormat = errors.New("unknown media format")

// The mvhd creation time counts seconds since 1904-01-01T00:00:00Z.
var mp4Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Extract returns the creation date of the media file at path,
// dispatching on the file extension.
func Extract(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()
	return ExtractReader(f, filepath.Ext(path))
}

// ExtractReader returns the creation date of the media object read from
// r. The extension (with or without the leading dot) selects the
// extractor: EXIF for still images, the mvhd box for mp4-family video.
func ExtractReader(r io.ReadSeeker, ext string) (time.Time, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg", "tif", "tiff", "png", "heic":
		return exifDateTime(r)
	case "mp4", "mov", "m4v":
		return mvhdCreationTime(r)
	default:
		return time.Time{}, fmt.Errorf("no extractor for %q: %w", ext, ErrUnknownFormat)
	}
}

func exifDateTime(r io.Reader) (time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode exif: %w", err)
	}
	return x.DateTime()
}

func mvhdCreationTime(r io.ReadSeeker) (time.Time, error) {
	boxes, err := mp4.ExtractBoxWithPayload(r, nil,
		mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse mp4: %w", err)
	}
	if len(boxes) == 0 {
		return time.Time{}, errors.New("no mvhd box found")
	}

	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return time.Time{}, errors.New("unexpected mvhd payload")
	}

	var secs uint64
	if mvhd.GetVersion() == 0 {
		secs = uint64(mvhd.CreationTimeV0)
	} else {
		secs = mvhd.CreationTimeV1
	}
	if secs == 0 {
		return time.Time{}, errors.New("mvhd creation time is unset")
	}
	return mp4Epoch.Add(time.Duration(secs) * time.Second), nil
}
