package mediafs

import (
	"errors"
)

var (
	// ErrNoParent is returned when a simulated MkdirAll walks past the root
	// without finding an existing ancestor to build on.
	ErrNoParent = errors.New("cannot resolve parent path")
	// ErrReflinkUnsupported is returned when a copy-on-write clone is
	// required but the platform or volume cannot provide one.
	ErrReflinkUnsupported = errors.New("reflink not supported")
)

// ReadonlyFs is the read-only subset of Fs. Every Fs satisfies it, so a
// consumer that must not mutate storage — the inner side of a dry run —
// can be handed a full chain through the narrower type.
type ReadonlyFs interface {
	// Name returns a diagnostic identity for the filesystem. Decorators
	// embed the name of what they wrap, e.g. "ErrorContext(Std)".
	Name() string

	// Stat returns metadata for the object at path.
	Stat(path string) (Metadata, error)

	// Exists reports whether path refers to an existing object. It never
	// fails: any underlying error collapses to false.
	Exists(path string) bool
}

// Fs is the capability interface the organizer runs against. It supports
// exactly the four operations a copy-based synchronization tool needs;
// everything else stays with the host filesystem.
//
// Implementations are composed by wrapping: a base adapter touches real
// storage (or, for a dry run, never does) and decorators add behavior
// around it. All operations are synchronous and block until the
// underlying I/O completes.
type Fs interface {
	ReadonlyFs

	// MkdirAll creates the directory at path along with any missing
	// ancestors. It succeeds when the target already exists as a
	// directory.
	MkdirAll(path string) error

	// Copy duplicates the object at from into to and returns the number
	// of bytes physically transferred. A copy-on-write clone reports 0.
	Copy(from, to string) (int64, error)
}
