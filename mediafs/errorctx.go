package mediafs

import (
	"fmt"
)

// ErrorContextFs wraps a filesystem so that every failure names the
// operation and the path(s) involved. The original error stays in the
// chain for errors.Is / errors.As; nothing is retried or replaced.
type ErrorContextFs struct {
	inner Fs
}

var _ Fs = (*ErrorContextFs)(nil)

// NewErrorContext wraps fs with path-qualified error reporting.
func NewErrorContext(fs Fs) *ErrorContextFs {
	return &ErrorContextFs{inner: fs}
}

// Name returns the name of the filesystem.
func (e *ErrorContextFs) Name() string {
	return fmt.Sprintf("ErrorContext(%s)", e.inner.Name())
}

// MkdirAll creates the directory at path, annotating any failure.
func (e *ErrorContextFs) MkdirAll(path string) error {
	if err := e.inner.MkdirAll(path); err != nil {
		return fmt.Errorf("failed to create directory [%s]: %w", path, err)
	}
	return nil
}

// Stat returns metadata for path, annotating any failure.
func (e *ErrorContextFs) Stat(path string) (Metadata, error) {
	meta, err := e.inner.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to get metadata of [%s]: %w", path, err)
	}
	return meta, nil
}

// Copy duplicates from into to, annotating any failure with both paths.
func (e *ErrorContextFs) Copy(from, to string) (int64, error) {
	n, err := e.inner.Copy(from, to)
	if err != nil {
		return n, fmt.Errorf("failed to copy from [%s] to [%s]: %w", from, to, err)
	}
	return n, nil
}

// Exists passes through unchanged; it has no failure to annotate.
func (e *ErrorContextFs) Exists(path string) bool {
	return e.inner.Exists(path)
}
