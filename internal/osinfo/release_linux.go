package osinfo

import "golang.org/x/sys/unix"

// Release returns the kernel release string, e.g. "6.8.0-45-generic".
func Release() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
