package platform

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		rawPlatform  string
		rawArch      string
		wantPlatform string
		wantArch     string
	}{
		{"linux_amd64", "linux", "amd64", Linux, X86_64},
		{"linux_x64", "linux", "x64", Linux, X86_64},
		{"linux_x86_64", "linux", "x86_64", Linux, X86_64},
		{"linux_arm64", "linux", "arm64", Linux, AArch64},
		{"linux_aarch64", "linux", "aarch64", Linux, AArch64},
		{"darwin_amd64", "darwin", "amd64", MacOS, X86_64},
		{"darwin_arm64", "darwin", "arm64", MacOS, AArch64},
		{"windows_amd64", "windows", "amd64", Windows, X86_64},
		{"win32_x64", "win32", "x64", Windows, X86_64},
		{"win32_arm64", "win32", "arm64", Windows, AArch64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Resolve(tt.rawPlatform, tt.rawArch)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if info.Platform != tt.wantPlatform {
				t.Errorf("Platform = %q, want %q", info.Platform, tt.wantPlatform)
			}
			if info.Arch != tt.wantArch {
				t.Errorf("Arch = %q, want %q", info.Arch, tt.wantArch)
			}
			if info.RawPlatform != tt.rawPlatform || info.RawArch != tt.rawArch {
				t.Errorf("raw = %q/%q, want %q/%q", info.RawPlatform, info.RawArch, tt.rawPlatform, tt.rawArch)
			}
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	tests := []struct {
		name        string
		rawPlatform string
		rawArch     string
		wantOS      bool
		wantRaw     string
	}{
		{"freebsd", "freebsd", "amd64", true, "freebsd"},
		{"android", "android", "arm64", true, "android"},
		{"empty_platform", "", "amd64", true, ""},
		{"uppercase_platform", "Linux", "amd64", true, "Linux"},
		{"ia32", "linux", "ia32", false, "ia32"},
		{"arm", "linux", "arm", false, "arm"},
		{"386", "windows", "386", false, "386"},
		{"riscv64", "linux", "riscv64", false, "riscv64"},
		{"platform_checked_first", "aix", "ppc64", true, "aix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Resolve(tt.rawPlatform, tt.rawArch)
			if err == nil {
				t.Fatalf("Resolve() = %+v, want error", info)
			}

			if tt.wantOS {
				var pe *UnsupportedPlatformError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %T, want *UnsupportedPlatformError", err)
				}
				if pe.Raw != tt.wantRaw {
					t.Errorf("Raw = %q, want %q", pe.Raw, tt.wantRaw)
				}
				return
			}

			var ae *UnsupportedArchitectureError
			if !errors.As(err, &ae) {
				t.Fatalf("error = %T, want *UnsupportedArchitectureError", err)
			}
			if ae.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", ae.Raw, tt.wantRaw)
			}
		})
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debian", FamilyDebian},
		{"Ubuntu", FamilyDebian},
		{" rhel ", FamilyRHEL},
		{"rocky", FamilyRHEL},
		{"fedora", FamilyFedora},
		{"opensuse", FamilySUSE},
		{"manjaro", FamilyArch},
		{"alpine", FamilyAlpine},
		{"slackware", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapFamily(tt.input); got != tt.want {
				t.Errorf("mapFamily(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
