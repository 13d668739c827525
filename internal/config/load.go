package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// PackageRoot is searched for DefaultFileName.
	PackageRoot string
	// ConfigFile names a Lua file explicitly. It takes precedence over
	// ZIRO_CONFIG_FILE and must exist.
	ConfigFile string
	Detector   platform.Detector
	Logger     zerolog.Logger
}

// Load layers the defaults, the Lua config file and ZIRO_* environment
// variables, in that order. It does not validate: callers apply their flag
// overrides first and then call Validate.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg := Default()

	var env Config
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	path, err := findConfigFile(opts.ConfigFile, env.ConfigFile, opts.PackageRoot)
	if err != nil {
		return nil, err
	}

	if path != "" {
		fileCfg, err := NewParser(opts.Detector).WithLogger(opts.Logger).ParseFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		cfg.Merge(fileCfg)
		opts.Logger.Debug().Str("path", path).Msg("applied config file")
	}

	cfg.Merge(&env)
	cfg.ConfigFile = path

	return cfg, nil
}

// findConfigFile returns the Lua file to load, or "" when there is none.
// Explicitly named files must exist; the package root default is optional.
func findConfigFile(flagPath, envPath, packageRoot string) (string, error) {
	for _, explicit := range []string{flagPath, envPath} {
		if explicit == "" {
			continue
		}
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	if packageRoot == "" {
		return "", nil
	}

	candidate := filepath.Join(packageRoot, DefaultFileName)
	fi, err := os.Stat(candidate)
	switch {
	case err == nil && fi.Mode().IsRegular():
		return candidate, nil
	case err == nil, errors.Is(err, os.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("config file: %w", err)
	}
}
