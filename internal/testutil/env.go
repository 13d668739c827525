// Package testutil provides helpers for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// configEnv lists every variable the config layer reads.
var configEnv = []string{
	"ZIRO_CONFIG_FILE",
	"ZIRO_ARTIFACT_HOST",
	"ZIRO_OWNER",
	"ZIRO_REPO",
	"ZIRO_NAMING",
	"ZIRO_SHORT_ARCH_SINCE",
	"ZIRO_INSTALL_DIR",
	"ZIRO_EXTRACTOR",
	"ZIRO_USER_AGENT",
	"ZIRO_LOG_LEVEL",
	"npm_package_version",
}

// SetupTestEnv clears the installer's environment variables and returns a
// fresh package root. Variables are restored by t.Setenv when the test ends.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	for _, key := range configEnv {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	root := filepath.Join(t.TempDir(), "package")
	if err := os.MkdirAll(root, 0o750); err != nil {
		t.Fatalf("failed to create package root: %v", err)
	}
	return root
}
