package platform

import (
	"fmt"
	"strings"
)

// platformMap accepts both Go (GOOS) and Node (process.platform) spellings.
var platformMap = map[string]string{
	"win32":   Windows,
	"windows": Windows,
	"darwin":  MacOS,
	"linux":   Linux,
}

// archMap accepts both Go (GOARCH) and Node (process.arch) spellings.
var archMap = map[string]string{
	"x64":     X86_64,
	"amd64":   X86_64,
	"x86_64":  X86_64,
	"arm64":   AArch64,
	"aarch64": AArch64,
}

var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// UnsupportedPlatformError is returned when the host OS is not in the mapping.
type UnsupportedPlatformError struct {
	Raw string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Raw)
}

// UnsupportedArchitectureError is returned when the host CPU is not in the mapping.
type UnsupportedArchitectureError struct {
	Raw string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("unsupported architecture: %s", e.Raw)
}

// Resolve maps raw host identifiers to an Info. It performs no I/O.
func Resolve(rawPlatform, rawArch string) (*Info, error) {
	p, ok := platformMap[rawPlatform]
	if !ok {
		return nil, &UnsupportedPlatformError{Raw: rawPlatform}
	}

	a, ok := archMap[rawArch]
	if !ok {
		return nil, &UnsupportedArchitectureError{Raw: rawArch}
	}

	return &Info{
		Platform:    p,
		Arch:        a,
		RawPlatform: rawPlatform,
		RawArch:     rawArch,
	}, nil
}

// normalizeID lowercases and trims a distro identifier.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizeID(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
