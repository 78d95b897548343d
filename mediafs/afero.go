package mediafs

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// AferoFs adapts an afero.Fs to the Fs capability interface. It lets
// the organizer enumerate a source tree and mutate a target through the
// same in-memory filesystem in tests, with afero.NewOsFs covering the
// real thing.
type AferoFs struct {
	fs             afero.Fs
	copyBufferSize int
}

var _ Fs = (*AferoFs)(nil)

// AferoOption is a functional option for configuring AferoFs.
type AferoOption func(*AferoFs)

// WithAferoCopyBufferSize sets the buffer size used while copying file
// contents.
func WithAferoCopyBufferSize(size int) AferoOption {
	return func(a *AferoFs) {
		a.copyBufferSize = size
	}
}

// NewAfero wraps fs as a leaf adapter.
func NewAfero(fs afero.Fs, opts ...AferoOption) *AferoFs {
	a := &AferoFs{
		fs:             fs,
		copyBufferSize: 32 * 1024,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the name of the filesystem.
func (a *AferoFs) Name() string {
	return "Afero"
}

// MkdirAll creates the directory at path and all missing parents.
func (a *AferoFs) MkdirAll(path string) error {
	return a.fs.MkdirAll(path, 0755)
}

// Stat returns metadata for the object at path.
func (a *AferoFs) Stat(path string) (Metadata, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromInfo(info), nil
}

// Copy duplicates the regular file at from into to and returns the
// bytes written.
func (a *AferoFs) Copy(from, to string) (int64, error) {
	src, err := a.fs.Open(from)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, &os.PathError{Op: "copy", Path: from, Err: os.ErrInvalid}
	}

	dst, err := a.fs.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	buf := make([]byte, a.copyBufferSize)
	written, err := io.CopyBuffer(dst, src, buf)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return written, err
}

// Exists reports whether path refers to an existing object.
func (a *AferoFs) Exists(path string) bool {
	_, err := a.fs.Stat(path)
	return err == nil
}
