// Package platform maps the host's raw OS and CPU identifiers onto the
// normalized platform/architecture pair used to name release archives.
//
// Detection is a pure table lookup first. Only when both identifiers are
// supported does the real detector touch the host (gopsutil) to collect
// Linux distribution facts, which are informational and never influence
// which archive is selected.
package platform

import "context"

// Normalized platform names.
const (
	Windows = "windows"
	MacOS   = "macos"
	Linux   = "linux"
)

// Normalized architecture names.
const (
	X86_64  = "x86_64"
	AArch64 = "aarch64"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info is the normalized description of the host.
type Info struct {
	Platform    string // "windows", "macos", "linux"
	Arch        string // "x86_64", "aarch64"
	RawPlatform string // identifier reported by the host, e.g. "darwin"
	RawArch     string // identifier reported by the host, e.g. "arm64"

	// Linux only, filled on a best-effort basis.
	Distro        string
	Family        string
	DistroVersion string
}

// IsWindows reports whether the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.Platform == Windows
}

// IsMacOS reports whether the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.Platform == MacOS
}

// IsLinux reports whether the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.Platform == Linux
}

// IsAArch64 reports whether the architecture is 64-bit ARM.
func (i *Info) IsAArch64() bool {
	return i.Arch == AArch64
}

// String returns "platform/arch".
func (i *Info) String() string {
	return i.Platform + "/" + i.Arch
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
