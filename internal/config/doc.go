// Package config resolves the installer settings.
//
// Settings are layered, later layers winning field by field:
//
//  1. Default()
//  2. a Lua file: the --config flag, ZIRO_CONFIG_FILE, or ziro.lua in the
//     package root when present
//  3. ZIRO_* environment variables
//  4. command-line flags, applied by the caller
//
// The Lua file runs in a gopher-lua VM with os, io, debug and every code
// loading function removed. A read-only platform table is injected so a
// file can branch on the host:
//
//	ziro = {
//	  artifact = {
//	    host  = "https://github.com",
//	    owner = "ziro-dev",
//	    repo  = "ziro",
//	  },
//	  naming = platform.is_windows and "v1" or "auto",
//	  short_arch_since = "0.2.0",
//	  extractor = "builtin",
//	}
//
// Evaluation is bounded by DefaultParseTimeout unless the caller's context
// already carries a deadline.
package config
