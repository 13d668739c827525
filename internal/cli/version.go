package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// npmVersionEnv is exported by npm while it runs lifecycle scripts.
const npmVersionEnv = "npm_package_version"

var errNoVersion = errors.New("no package version: pass it as an argument, with --pkg-version, " +
	"or run from a package root containing package.json")

// resolveVersion picks the release to install. Sources are tried in order:
// positional argument, --pkg-version, npm_package_version, then the
// "version" field of package.json in packageRoot.
func resolveVersion(args []string, flagVersion string, lookupEnv func(string) (string, bool), packageRoot string) (string, string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), "argument", nil
	}
	if v := strings.TrimSpace(flagVersion); v != "" {
		return v, "--pkg-version", nil
	}
	if v, ok := lookupEnv(npmVersionEnv); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), npmVersionEnv, nil
	}

	v, err := readPackageVersion(filepath.Join(packageRoot, "package.json"))
	if err != nil {
		return "", "", err
	}
	return v, "package.json", nil
}

func readPackageVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errNoVersion
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	if v := strings.TrimSpace(manifest.Version); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s has no version field: %w", path, errNoVersion)
}
