//go:build !linux && !darwin

package mediafs

// reflinkFile always fails: no clone primitive is known for this GOOS.
// A CowFs chain in ReflinkUnknown mode degrades to plain copies after
// the failure threshold; ForceReflink surfaces the error.
func reflinkFile(from, to string) error {
	return ErrReflinkUnsupported
}
