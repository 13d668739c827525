package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/ziro-dev/ziro-dist/internal/binary"
)

// Config holds the installer settings. Every field is a plain string so the
// Lua, environment and flag layers can overlay each other field by field; an
// empty value means "not set by this layer". Tags hold full variable names.
type Config struct {
	ArtifactHost   string `envconfig:"ZIRO_ARTIFACT_HOST"`
	Owner          string `envconfig:"ZIRO_OWNER"`
	Repo           string `envconfig:"ZIRO_REPO"`
	Naming         string `envconfig:"ZIRO_NAMING"`
	ShortArchSince string `envconfig:"ZIRO_SHORT_ARCH_SINCE"`
	// InstallDir defaults to <package root>/bin when empty.
	InstallDir string `envconfig:"ZIRO_INSTALL_DIR"`
	Extractor  string `envconfig:"ZIRO_EXTRACTOR"`
	UserAgent  string `envconfig:"ZIRO_USER_AGENT"`
	LogLevel   string `envconfig:"ZIRO_LOG_LEVEL"`

	// ConfigFile is the Lua file that was loaded, if any.
	ConfigFile string `envconfig:"ZIRO_CONFIG_FILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ArtifactHost:   binary.DefaultSource.Host,
		Owner:          binary.DefaultSource.Owner,
		Repo:           binary.DefaultSource.Repo,
		Naming:         string(binary.ConventionV1),
		ShortArchSince: binary.DefaultShortArchSince,
		Extractor:      binary.ExtractorNative,
		UserAgent:      binary.DefaultUserAgent,
		LogLevel:       zerolog.InfoLevel.String(),
	}
}

// Merge overlays the non-empty fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	set(&c.ArtifactHost, other.ArtifactHost)
	set(&c.Owner, other.Owner)
	set(&c.Repo, other.Repo)
	set(&c.Naming, other.Naming)
	set(&c.ShortArchSince, other.ShortArchSince)
	set(&c.InstallDir, other.InstallDir)
	set(&c.Extractor, other.Extractor)
	set(&c.UserAgent, other.UserAgent)
	set(&c.LogLevel, other.LogLevel)
	set(&c.ConfigFile, other.ConfigFile)
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ArtifactHost)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   "artifact.host",
			Message: fmt.Sprintf("%q is not an http(s) URL", c.ArtifactHost),
		}
	}

	segments := []struct{ field, value string }{
		{"artifact.owner", c.Owner},
		{"artifact.repo", c.Repo},
	}
	for _, s := range segments {
		if s.value == "" || strings.ContainsAny(s.value, "/?#") {
			return &ValidationError{Field: s.field, Message: fmt.Sprintf("%q is not a valid path segment", s.value)}
		}
	}

	if _, err := binary.ParseConvention(c.Naming); err != nil {
		return &ValidationError{Field: "naming", Message: err.Error()}
	}

	if _, err := semver.NewVersion(c.ShortArchSince); err != nil {
		return &ValidationError{
			Field:   "short_arch_since",
			Message: fmt.Sprintf("%q is not a semantic version: %v", c.ShortArchSince, err),
		}
	}

	switch c.Extractor {
	case binary.ExtractorNative, binary.ExtractorBuiltin, binary.ExtractorAuto:
	default:
		return &ValidationError{
			Field:   "extractor",
			Message: fmt.Sprintf("unknown extractor %q (want native, builtin or auto)", c.Extractor),
		}
	}

	if c.UserAgent == "" {
		return &ValidationError{Field: "user_agent", Message: "cannot be empty"}
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Message: err.Error()}
	}

	return nil
}

// Source returns the artifact location.
func (c *Config) Source() binary.Source {
	return binary.Source{Host: c.ArtifactHost, Owner: c.Owner, Repo: c.Repo}
}

// NamingPolicy converts the naming fields. Call Validate first.
func (c *Config) NamingPolicy() (binary.Naming, error) {
	conv, err := binary.ParseConvention(c.Naming)
	if err != nil {
		return binary.Naming{}, err
	}
	since, err := semver.NewVersion(c.ShortArchSince)
	if err != nil {
		return binary.Naming{}, fmt.Errorf("parse short_arch_since: %w", err)
	}
	return binary.Naming{Convention: conv, ShortArchSince: since}, nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}
