package mediafs

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// ReflinkSupport describes what the caller knows about copy-on-write
// clone support on the volumes a chain will touch.
type ReflinkSupport int

const (
	// ReflinkUnknown means support has not been probed; the chain will
	// try clones and fall back to byte copies.
	ReflinkUnknown ReflinkSupport = iota
	// ReflinkSupported means the caller requires clones; any clone
	// failure is a hard error.
	ReflinkSupported
	// ReflinkUnsupported means clones are known not to work. A CowFs
	// cannot be built for such a volume; skip the decorator instead.
	ReflinkUnsupported
)

// reflinkState is the per-chain clone policy. The only legal transition
// is reflinkOrCopy -> copyOnly, taken once and never reversed.
// forceReflink never downgrades: it records an explicit caller promise
// that clones are available.
type reflinkState = int32

const (
	forceReflink  reflinkState = iota // clone or hard error
	reflinkOrCopy                     // clone, falling back to byte copy
	copyOnly                          // absorbing: delegate to inner copy
)

// maxReflinkFailures is how many zero-success clone failures a chain
// tolerates before it stops trying.
const maxReflinkFailures = 10

// CowFs opportunistically replaces full byte copies with copy-on-write
// clones. A clone shares storage blocks with its source, so a successful
// Copy reports 0 bytes transferred.
//
// When support is unknown the decorator self-corrects: every failed
// clone falls back to a real copy, and once failures pass a threshold
// with no success ever observed, the chain permanently stops attempting
// clones.
type CowFs struct {
	inner           Fs
	state           atomic.Int32
	successReflinks atomic.Uint64
	failedReflinks  atomic.Uint64
	logger          *slog.Logger

	// reflink performs the clone; swapped out by tests.
	reflink func(from, to string) error
}

var _ Fs = (*CowFs)(nil)

// CowOption is a functional option for configuring CowFs.
type CowOption func(*CowFs)

// WithCowLogger sets the logger used for the permanent-downgrade
// diagnostic. Defaults to slog.Default().
func WithCowLogger(logger *slog.Logger) CowOption {
	return func(c *CowFs) {
		c.logger = logger
	}
}

// NewCow wraps fs with clone-first copying. ReflinkSupported forces
// clones (failures become hard errors); ReflinkUnknown tries clones and
// adapts. Building a CowFs for a volume known to lack reflink support is
// refused with ErrReflinkUnsupported.
func NewCow(fs Fs, support ReflinkSupport, opts ...CowOption) (*CowFs, error) {
	c := &CowFs{
		inner:   fs,
		logger:  slog.Default(),
		reflink: reflinkFile,
	}

	switch support {
	case ReflinkSupported:
		c.state.Store(forceReflink)
	case ReflinkUnknown:
		c.state.Store(reflinkOrCopy)
	default:
		return nil, fmt.Errorf("cannot build CowFs for an incapable volume: %w", ErrReflinkUnsupported)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the name of the filesystem.
func (c *CowFs) Name() string {
	return fmt.Sprintf("CoW(%s)", c.inner.Name())
}

// SuccessfulReflinks returns how many copies were satisfied by a clone.
func (c *CowFs) SuccessfulReflinks() uint64 {
	return c.successReflinks.Load()
}

// FailedReflinks returns how many clone attempts fell back to a copy.
func (c *CowFs) FailedReflinks() uint64 {
	return c.failedReflinks.Load()
}

// MkdirAll passes through to the wrapped filesystem.
func (c *CowFs) MkdirAll(path string) error {
	return c.inner.MkdirAll(path)
}

// Stat passes through to the wrapped filesystem.
func (c *CowFs) Stat(path string) (Metadata, error) {
	return c.inner.Stat(path)
}

// Copy duplicates from into to according to the current clone policy.
// A copy satisfied by a clone returns 0; a byte copy returns the bytes
// written.
func (c *CowFs) Copy(from, to string) (int64, error) {
	switch c.state.Load() {
	case forceReflink:
		if err := c.reflink(from, to); err != nil {
			return 0, fmt.Errorf("failed to reflink [%s] to [%s]: %w", from, to, err)
		}
		return 0, nil

	case reflinkOrCopy:
		if err := c.reflink(from, to); err == nil {
			c.successReflinks.Add(1)
			return 0, nil
		}

		size, err := c.inner.Copy(from, to)
		if err != nil {
			return size, err
		}

		fails := c.failedReflinks.Add(1)
		if fails > maxReflinkFailures && c.successReflinks.Load() == 0 {
			if c.state.CompareAndSwap(reflinkOrCopy, copyOnly) {
				c.logger.Warn("reflink doesn't work, permanently switching to copy",
					"fs", c.Name(), "failed_attempts", fails)
			}
		}
		return size, nil

	default:
		return c.inner.Copy(from, to)
	}
}

// Exists passes through to the wrapped filesystem.
func (c *CowFs) Exists(path string) bool {
	return c.inner.Exists(path)
}
