package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziro-dev/ziro-dist/internal/platform"
	"github.com/ziro-dev/ziro-dist/internal/testutil"
)

type cmdResult struct {
	code   int
	stdout string
	stderr string
}

func linuxX64() platform.Detector {
	return platform.StaticDetector{Info: &platform.Info{
		Platform:    platform.Linux,
		Arch:        platform.X86_64,
		RawPlatform: "linux",
		RawArch:     "x64",
	}}
}

func runCLI(t *testing.T, args ...string) cmdResult {
	t.Helper()
	return runCLIOn(t, linuxX64(), args...)
}

func runCLIOn(t *testing.T, detector platform.Detector, args ...string) cmdResult {
	t.Helper()

	cmd := newRootCmd("test", &rootOptions{detector: detector})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	code := run(context.Background(), cmd)
	return cmdResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// artifactHost serves a zip containing ziro for every path in archives and
// 404 for anything else. It sets ZIRO_ARTIFACT_HOST for the test.
func artifactHost(t *testing.T, archives ...string) {
	t.Helper()

	archive := testutil.ZipBytes(t, map[string]testutil.ZipEntry{
		"ziro": {Content: "#!/bin/sh\necho ziro\n"},
	})
	paths := make(map[string]bool, len(archives))
	for _, p := range archives {
		paths[p] = true
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !paths[r.URL.Path] {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	t.Cleanup(server.Close)
	t.Setenv("ZIRO_ARTIFACT_HOST", server.URL)
}

func TestInstallCommand(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t, "/ziro-dev/ziro/releases/download/v1.4.0/linux-x86_64.zip")

	res := runCLI(t, "--package-root", root, "--extractor", "builtin", "1.4.0")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}

	binPath := filepath.Join(root, "bin", "ziro")
	if _, err := os.Stat(binPath); err != nil {
		t.Fatalf("binary not installed: %v", err)
	}
	if !strings.Contains(res.stdout, "ziro 1.4.0 installed to "+binPath) {
		t.Errorf("stdout = %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "downloading: 100%") {
		t.Errorf("stderr should show completed progress, got %q", res.stderr)
	}
}

func TestInstallCommandVersionFromNpm(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t, "/ziro-dev/ziro/releases/download/v2.0.0/linux-x86_64.zip")
	t.Setenv("npm_package_version", "2.0.0")

	res := runCLI(t, "--package-root", root, "--extractor", "builtin")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}
}

func TestInstallCommandVersionFromPackageJSON(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t, "/ziro-dev/ziro/releases/download/v0.1.5/linux-x86_64.zip")
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"ziro","version":"0.1.5"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "--package-root", root, "--extractor", "builtin")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}
}

func TestInstallCommandLuaConfig(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t, "/ziro-dev/ziro/releases/download/v0.3.0/linux-x64.zip")

	lua := `
		ziro = {
			naming = "auto",
			short_arch_since = "0.2.0",
			extractor = platform.is_linux and "builtin" or "native",
			install_dir = "` + filepath.ToSlash(filepath.Join(root, "vendor")) + `",
		}
	`
	if err := os.WriteFile(filepath.Join(root, "ziro.lua"), []byte(lua), 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "--package-root", root, "0.3.0")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}
	if _, err := os.Stat(filepath.Join(root, "vendor", "ziro")); err != nil {
		t.Errorf("binary not installed into configured dir: %v", err)
	}
}

func TestInstallCommandFlagOverridesEnv(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t, "/ziro-dev/ziro/releases/download/v1.0.0/linux-x64.zip")
	t.Setenv("ZIRO_NAMING", "v1")
	t.Setenv("ZIRO_EXTRACTOR", "builtin")

	res := runCLI(t, "--package-root", root, "--naming", "v2", "1.0.0")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}
}

func TestInstallCommandFailureReport(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	artifactHost(t)

	res := runCLI(t, "--package-root", root, "--extractor", "builtin", "9.9.9")
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}

	for _, want := range []string{
		"Failed to install ziro 9.9.9",
		"HTTP 404",
		"Likely causes:",
		"cargo install ziro",
		"Build from source",
	} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}

	if _, err := os.Stat(filepath.Join(root, "bin", "linux-x86_64.zip")); !os.IsNotExist(err) {
		t.Error("failed download left an archive behind")
	}
}

func TestInstallCommandUnsupportedPlatform(t *testing.T) {
	root := testutil.SetupTestEnv(t)

	// Neither file is valid; detection must fail before either is read.
	if err := os.WriteFile(filepath.Join(root, "ziro.lua"), []byte("ziro = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	freebsd := platform.StaticDetector{Err: &platform.UnsupportedPlatformError{Raw: "freebsd"}}
	res := runCLIOn(t, freebsd, "--package-root", root)
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}

	for _, want := range []string{
		"Failed to install ziro",
		"unsupported platform: freebsd",
		`not "freebsd"`,
		"Likely causes:",
		"cargo install ziro",
		"Build from source: https://github.com/ziro-dev/ziro",
	} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
	if strings.Contains(res.stderr, "Error:") {
		t.Errorf("unsupported platform reported as a plain error:\n%s", res.stderr)
	}
}

func TestInstallCommandInvalidConfig(t *testing.T) {
	root := testutil.SetupTestEnv(t)

	res := runCLI(t, "--package-root", root, "--naming", "v9", "1.0.0")
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "Error:") || !strings.Contains(res.stderr, "naming") {
		t.Errorf("stderr = %q", res.stderr)
	}
	if strings.Contains(res.stderr, "Likely causes") {
		t.Error("configuration errors should not print the install failure report")
	}
}

func TestInstallCommandNoVersion(t *testing.T) {
	root := testutil.SetupTestEnv(t)

	res := runCLI(t, "--package-root", root)
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "no package version") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestStatusCommand(t *testing.T) {
	root := testutil.SetupTestEnv(t)

	res := runCLI(t, "status", "--package-root", root)
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1 before install", res.code)
	}
	if !strings.Contains(res.stdout, "not installed") {
		t.Errorf("stdout = %q", res.stdout)
	}

	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "ziro"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	res = runCLI(t, "status", "--package-root", root)
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "installed (ziro)") || !strings.Contains(res.stdout, "linux/x86_64") {
		t.Errorf("stdout = %q", res.stdout)
	}
}
