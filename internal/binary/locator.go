package binary

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// Convention names an archive naming scheme.
type Convention string

const (
	// ConventionV1 keeps the architecture token verbatim: linux-x86_64.zip.
	ConventionV1 Convention = "v1"
	// ConventionV2 shortens x86_64 to x64: linux-x64.zip.
	ConventionV2 Convention = "v2"
	// ConventionAuto picks v1 or v2 from the release version.
	ConventionAuto Convention = "auto"
)

// DefaultShortArchSince is the first release published with v2 names when
// running in auto mode.
const DefaultShortArchSince = "0.2.0"

// ParseConvention parses a convention name. The aliases "x86_64" and "x64"
// name the token each convention produces.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "x86_64":
		return ConventionV1, nil
	case "v2", "x64":
		return ConventionV2, nil
	case "auto":
		return ConventionAuto, nil
	default:
		return "", fmt.Errorf("unknown naming convention %q (want v1, v2 or auto)", s)
	}
}

// Naming is the archive naming policy in force.
type Naming struct {
	Convention Convention
	// ShortArchSince is consulted only for ConventionAuto.
	ShortArchSince *semver.Version
}

// DefaultNaming returns the v1 policy.
func DefaultNaming() Naming {
	return Naming{
		Convention:     ConventionV1,
		ShortArchSince: semver.MustParse(DefaultShortArchSince),
	}
}

// Resolve returns the concrete convention used for version. In auto mode,
// versions that do not parse as semver fall back to v1.
func (n Naming) Resolve(version string) Convention {
	if n.Convention != ConventionAuto {
		if n.Convention == "" {
			return ConventionV1
		}
		return n.Convention
	}

	if n.ShortArchSince == nil {
		return ConventionV1
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return ConventionV1
	}

	if v.LessThan(n.ShortArchSince) {
		return ConventionV1
	}
	return ConventionV2
}

// Source identifies where releases are published.
type Source struct {
	Host  string // e.g. "https://github.com"
	Owner string
	Repo  string
}

// DefaultSource is the public release location.
var DefaultSource = Source{
	Host:  "https://github.com",
	Owner: "ziro-dev",
	Repo:  "ziro",
}

// Target is a resolved release archive.
type Target struct {
	ArchiveName string
	URL         string
	Convention  Convention
}

// archToken returns the architecture token for a concrete convention.
func archToken(arch string, c Convention) string {
	if c == ConventionV2 && arch == platform.X86_64 {
		return "x64"
	}
	return arch
}

// ArchiveName returns "{platform}-{arch}.zip" for a concrete convention.
func ArchiveName(info *platform.Info, c Convention) string {
	return fmt.Sprintf("%s-%s.zip", info.Platform, archToken(info.Arch, c))
}

// DownloadURL builds
// {host}/{owner}/{repo}/releases/download/v{version}/{archive}.
func DownloadURL(src Source, version string, info *platform.Info, c Convention) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/v%s/%s",
		strings.TrimRight(src.Host, "/"),
		src.Owner,
		src.Repo,
		url.PathEscape(version),
		ArchiveName(info, c),
	)
}

// Locate resolves the naming policy for version and returns the archive
// name and URL.
func Locate(src Source, naming Naming, version string, info *platform.Info) Target {
	c := naming.Resolve(version)
	return Target{
		ArchiveName: ArchiveName(info, c),
		URL:         DownloadURL(src, version, info, c),
		Convention:  c,
	}
}
