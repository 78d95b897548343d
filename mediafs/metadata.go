package mediafs

import (
	"os"
	"time"
)

// metaFlags records what kind of object a Metadata entry describes.
// The flags travel together and are not mutually exclusive: a symlink
// resolved through the OS may report both the symlink and directory bits.
type metaFlags uint8

const (
	flagDir metaFlags = 1 << iota
	flagFile
	flagSymlink
)

// Metadata describes a filesystem object. Values are immutable and cheap
// to copy; consumers that care about directories must check IsDir
// explicitly rather than inferring it from the other flags.
type Metadata struct {
	size     int64
	modified time.Time
	flags    metaFlags
}

// SyntheticDir fabricates a directory record: zero length, current
// modification time, directory flag set. It is the only way to produce a
// Metadata that was not read from storage, and exists so a simulated
// MkdirAll can answer later Stat calls.
func SyntheticDir() Metadata {
	return Metadata{
		size:     0,
		modified: time.Now(),
		flags:    flagDir,
	}
}

// metadataFromInfo converts a stat result into a Metadata value.
func metadataFromInfo(info os.FileInfo) Metadata {
	var flags metaFlags
	if info.IsDir() {
		flags |= flagDir
	}
	if info.Mode().IsRegular() {
		flags |= flagFile
	}
	if info.Mode()&os.ModeSymlink != 0 {
		flags |= flagSymlink
	}

	return Metadata{
		size:     info.Size(),
		modified: info.ModTime(),
		flags:    flags,
	}
}

// Size returns the object's length in bytes.
func (m Metadata) Size() int64 {
	return m.size
}

// ModTime returns the object's modification time.
func (m Metadata) ModTime() time.Time {
	return m.modified
}

// IsDir reports whether the object is a directory.
func (m Metadata) IsDir() bool {
	return m.flags&flagDir != 0
}

// IsFile reports whether the object is a regular file.
func (m Metadata) IsFile() bool {
	return m.flags&flagFile != 0
}

// IsSymlink reports whether the object is a symbolic link.
func (m Metadata) IsSymlink() bool {
	return m.flags&flagSymlink != 0
}
