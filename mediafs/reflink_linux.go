package mediafs

import (
	"os"

	"golang.org/x/sys/unix"
)

// reflinkFile clones from into to with the FICLONE ioctl. The target is
// created (or truncated) first; if the ioctl is refused the partial
// target is removed so a fallback copy starts clean.
func reflinkFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	err = unix.IoctlFileClone(int(dst.Fd()), int(src.Fd()))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(to)
		return err
	}
	return nil
}
