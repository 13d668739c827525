package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector for the running host.
type RealDetector struct {
	goos   string
	goarch string
	// distroInfo is swapped out in tests.
	distroInfo func(ctx context.Context) (platform, family, version string, err error)
}

// NewDetector creates a detector for the running process.
func NewDetector() *RealDetector {
	return &RealDetector{
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
		distroInfo: host.PlatformInformationWithContext,
	}
}

// Detect resolves the host identifiers and, on Linux, collects distribution
// details with gopsutil.
//
// The mapping lookup happens first so an unsupported host fails without any
// filesystem access. If distro detection fails the Info is still returned
// without distro fields; only a cancelled context is treated as an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info, err := Resolve(d.goos, d.goarch)
	if err != nil {
		return nil, err
	}

	if !info.IsLinux() || d.distroInfo == nil {
		return info, nil
	}

	id, family, version, err := d.distroInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if id = normalizeID(id); id != "" {
		info.Distro = id
		info.Family = mapFamily(family)
		info.DistroVersion = normalizeID(version)
	}

	return info, nil
}

// StaticDetector returns a fixed Info. The install command uses it to hand an
// already detected host to later stages; tests use it to pin a platform.
type StaticDetector struct {
	Info *Info
	Err  error
}

// Detect returns the configured Info or error.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Info == nil {
		return nil, fmt.Errorf("no platform info configured")
	}
	info := *s.Info
	return &info, nil
}
