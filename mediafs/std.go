package mediafs

import (
	"io"
	"os"
)

// StdFs is the leaf adapter backed by real OS calls. Each operation maps
// 1:1 onto the os package; errors keep their OS-level cause.
type StdFs struct {
	copyBufferSize int
}

var _ Fs = (*StdFs)(nil)

// StdOption is a functional option for configuring StdFs.
type StdOption func(*StdFs)

// WithCopyBufferSize sets the buffer size used while copying file contents.
func WithCopyBufferSize(size int) StdOption {
	return func(s *StdFs) {
		s.copyBufferSize = size
	}
}

// NewStd creates a StdFs with the specified options.
func NewStd(opts ...StdOption) *StdFs {
	s := &StdFs{
		copyBufferSize: 32 * 1024, // default 32KB
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the name of the filesystem.
func (s *StdFs) Name() string {
	return "Std"
}

// MkdirAll creates the directory at path and all missing parents.
func (s *StdFs) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Stat returns metadata for the object at path, following symlinks.
func (s *StdFs) Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromInfo(info), nil
}

// Copy duplicates the regular file at from into to, creating or
// truncating the target, and returns the bytes written. The source's
// permission bits are applied to the target after the contents land.
func (s *StdFs) Copy(from, to string) (int64, error) {
	src, err := os.Open(from)
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

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	buf := make([]byte, s.copyBufferSize)
	written, err := io.CopyBuffer(dst, src, buf)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, err
	}

	// The create above is subject to the umask; restore the source mode.
	if err := os.Chmod(to, info.Mode().Perm()); err != nil {
		return written, err
	}

	return written, nil
}

// Exists reports whether path refers to an existing object.
func (s *StdFs) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
