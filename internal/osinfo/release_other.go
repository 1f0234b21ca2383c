//go:build !linux

package osinfo

// Release returns the OS release string. Unavailable on this platform.
func Release() string { return "" }
