// Package osinfo reports coarse host facts for telemetry payloads.
package osinfo

import "runtime"

// goosNames maps GOOS values to the display names used in payloads.
var goosNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Mac OS X",
	"windows": "Windows",
	"freebsd": "FreeBSD",
	"openbsd": "OpenBSD",
	"netbsd":  "NetBSD",
}

// Name returns the display name of the host operating system.
func Name() string {
	if name, ok := goosNames[runtime.GOOS]; ok {
		return name
	}
	return runtime.GOOS
}

// Arch returns the host architecture.
func Arch() string { return runtime.GOARCH }

// CoreCount returns the number of logical CPUs.
func CoreCount() int { return runtime.NumCPU() }
