package mediafs

import (
	"io"
	"os"

	"github.com/absfs/absfs"
)

// AbsFs adapts an absfs.FileSystem (memfs, osfs, or any other absfs
// implementation) to the Fs capability interface, so a chain can be
// composed over virtual storage the same way it is over the host.
type AbsFs struct {
	fs             absfs.FileSystem
	copyBufferSize int
}

var _ Fs = (*AbsFs)(nil)

// AbsOption is a functional option for configuring AbsFs.
type AbsOption func(*AbsFs)

// WithAbsCopyBufferSize sets the buffer size used while copying file
// contents.
func WithAbsCopyBufferSize(size int) AbsOption {
	return func(a *AbsFs) {
		a.copyBufferSize = size
	}
}

// NewAbs wraps fs as a leaf adapter.
func NewAbs(fs absfs.FileSystem, opts ...AbsOption) *AbsFs {
	a := &AbsFs{
		fs:             fs,
		copyBufferSize: 32 * 1024,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the name of the filesystem.
func (a *AbsFs) Name() string {
	return "AbsFs"
}

// MkdirAll creates the directory at path and all missing parents.
func (a *AbsFs) MkdirAll(path string) error {
	return a.fs.MkdirAll(path, 0755)
}

// Stat returns metadata for the object at path.
func (a *AbsFs) Stat(path string) (Metadata, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromInfo(info), nil
}

// Copy duplicates the regular file at from into to and returns the
// bytes written.
func (a *AbsFs) Copy(from, to string) (int64, error) {
	src, err := a.fs.OpenFile(from, os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := a.fs.Stat(from)
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
func (a *AbsFs) Exists(path string) bool {
	_, err := a.fs.Stat(path)
	return err == nil
}
