package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalZiro      = "ziro"
	luaFieldArtifact   = "artifact"
	luaFieldHost       = "host"
	luaFieldOwner      = "owner"
	luaFieldRepo       = "repo"
	luaFieldNaming     = "naming"
	luaFieldShortArch  = "short_arch_since"
	luaFieldInstallDir = "install_dir"
	luaFieldExtractor  = "extractor"
	luaFieldUserAgent  = "user_agent"
	luaFieldLogLevel   = "log_level"
)

const (
	// EnvPrefix is prepended to every environment variable the config reads,
	// e.g. ZIRO_NAMING.
	EnvPrefix = "ZIRO"

	// DefaultFileName is looked up in the package root when no config file is
	// named explicitly.
	DefaultFileName = "ziro.lua"

	// MaxConfigSize bounds the Lua file read from disk.
	MaxConfigSize = 1 << 20

	// DefaultParseTimeout applies when the caller's context has no deadline.
	DefaultParseTimeout = 5 * time.Second
)
