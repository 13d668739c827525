package platform

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestRealDetector_Detect(t *testing.T) {
	if _, err := Resolve(runtime.GOOS, runtime.GOARCH); err != nil {
		t.Skipf("host %s/%s is not supported: %v", runtime.GOOS, runtime.GOARCH, err)
	}

	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.RawPlatform != runtime.GOOS {
		t.Errorf("RawPlatform = %q, want %q", info.RawPlatform, runtime.GOOS)
	}
	if info.RawArch != runtime.GOARCH {
		t.Errorf("RawArch = %q, want %q", info.RawArch, runtime.GOARCH)
	}
	if info.Distro != "" && info.Family == "" {
		t.Error("Family should be set when Distro is set")
	}
}

func TestRealDetector_UnsupportedSkipsHostQuery(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		goarch string
	}{
		{"unsupported_os", "plan9", "amd64"},
		{"unsupported_arch", "linux", "mips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			d := &RealDetector{
				goos:   tt.goos,
				goarch: tt.goarch,
				distroInfo: func(ctx context.Context) (string, string, string, error) {
					called = true
					return "", "", "", nil
				},
			}

			if _, err := d.Detect(context.Background()); err == nil {
				t.Fatal("expected error but got none")
			}
			if called {
				t.Error("distro lookup ran for an unsupported host")
			}
		})
	}
}

func TestRealDetector_Distro(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		id         string
		family     string
		version    string
		err        error
		wantDistro string
		wantFamily string
		wantCalled bool
	}{
		{
			name:       "ubuntu",
			goos:       "linux",
			id:         "Ubuntu",
			family:     "debian",
			version:    "22.04",
			wantDistro: "ubuntu",
			wantFamily: FamilyDebian,
			wantCalled: true,
		},
		{
			name:       "lookup_failure_is_not_fatal",
			goos:       "linux",
			err:        errors.New("no os-release"),
			wantCalled: true,
		},
		{
			name:       "empty_id_leaves_fields_blank",
			goos:       "linux",
			family:     "debian",
			wantCalled: true,
		},
		{
			name:       "macos_skips_lookup",
			goos:       "darwin",
			wantCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			d := &RealDetector{
				goos:   tt.goos,
				goarch: "arm64",
				distroInfo: func(ctx context.Context) (string, string, string, error) {
					called = true
					return tt.id, tt.family, tt.version, tt.err
				},
			}

			info, err := d.Detect(context.Background())
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if called != tt.wantCalled {
				t.Errorf("distro lookup called = %v, want %v", called, tt.wantCalled)
			}
			if info.Distro != tt.wantDistro {
				t.Errorf("Distro = %q, want %q", info.Distro, tt.wantDistro)
			}
			if info.Family != tt.wantFamily {
				t.Errorf("Family = %q, want %q", info.Family, tt.wantFamily)
			}
		})
	}
}

func TestRealDetector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &RealDetector{
		goos:   "linux",
		goarch: "amd64",
		distroInfo: func(ctx context.Context) (string, string, string, error) {
			return "", "", "", ctx.Err()
		},
	}

	if _, err := d.Detect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}

func TestStaticDetector(t *testing.T) {
	want := &Info{Platform: Windows, Arch: X86_64}

	got, err := StaticDetector{Info: want}.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got == want {
		t.Error("Detect() returned the shared pointer, want a copy")
	}
	if *got != *want {
		t.Errorf("Detect() = %+v, want %+v", got, want)
	}

	if _, err := (StaticDetector{}).Detect(context.Background()); err == nil {
		t.Error("expected error for empty StaticDetector")
	}
}
