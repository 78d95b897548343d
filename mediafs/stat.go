package mediafs

import (
	"fmt"
	"sync/atomic"
)

// Stats aggregates copy counters. Both counters only ever grow, and each
// is updated with an independent atomic add: a snapshot taken while a
// copy is in flight may miss that copy, but never sees a torn value.
type Stats struct {
	copiedCount atomic.Int64
	copiedSize  atomic.Uint64
}

// NewStats creates an empty aggregator. One Stats may back several StatFs
// views so that, e.g., a dry-run chain and a real chain in the same
// session report a combined total.
func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) countFile(size int64) {
	s.copiedCount.Add(1)
	s.copiedSize.Add(uint64(size))
}

// CopiedCount returns the number of files copied so far.
func (s *Stats) CopiedCount() int64 {
	return s.copiedCount.Load()
}

// CopiedSize returns the number of bytes copied so far.
func (s *Stats) CopiedSize() uint64 {
	return s.copiedSize.Load()
}

// StatFs wraps a filesystem and feeds a shared Stats aggregator. Only
// Copy is instrumented, and only after the inner copy succeeds; failed
// copies leave the counters untouched.
type StatFs struct {
	inner Fs
	stats *Stats
}

var _ Fs = (*StatFs)(nil)

// NewStat wraps fs so successful copies are counted into stats.
func NewStat(fs Fs, stats *Stats) *StatFs {
	return &StatFs{inner: fs, stats: stats}
}

// Name returns the name of the filesystem.
func (s *StatFs) Name() string {
	return fmt.Sprintf("Stats(%s)", s.inner.Name())
}

// Underlying returns the wrapped filesystem, so a caller that built the
// chain can still reach an inner decorator (the dry-run map, say).
func (s *StatFs) Underlying() Fs {
	return s.inner
}

// MkdirAll passes through to the wrapped filesystem.
func (s *StatFs) MkdirAll(path string) error {
	return s.inner.MkdirAll(path)
}

// Stat passes through to the wrapped filesystem.
func (s *StatFs) Stat(path string) (Metadata, error) {
	return s.inner.Stat(path)
}

// Copy passes through and, on success, records the transfer.
func (s *StatFs) Copy(from, to string) (int64, error) {
	size, err := s.inner.Copy(from, to)
	if err != nil {
		return size, err
	}
	s.stats.countFile(size)
	return size, nil
}

// Exists passes through to the wrapped filesystem.
func (s *StatFs) Exists(path string) bool {
	return s.inner.Exists(path)
}
