package mediafs

import (
	"golang.org/x/sys/unix"
)

// reflinkFile clones from into to with clonefile(2). The syscall
// refuses an existing target, matching the create-then-clone contract
// of the linux path closely enough for our copy-only use.
func reflinkFile(from, to string) error {
	return unix.Clonefile(from, to, 0)
}
