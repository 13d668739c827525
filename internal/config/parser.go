package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// Parser evaluates Lua config files in a sandbox with the platform table
// injected.
type Parser struct {
	detector platform.Detector
	logger   zerolog.Logger
}

// NewParser creates a parser. A nil detector leaves the platform global
// undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: zerolog.Nop()}
}

// WithLogger sets the logger used for parse diagnostics.
func (p *Parser) WithLogger(logger zerolog.Logger) *Parser {
	p.logger = logger
	return p
}

// ParseFile reads and evaluates the Lua file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = path
	return cfg, nil
}

// ParseString evaluates luaCode and returns only the fields it set.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		platform.InjectPlatformTable(L, info)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("config evaluation aborted: %w", ctxErr)
		}
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("naming", cfg.Naming).
		Str("extractor", cfg.Extractor).
		Str("install_dir", cfg.InstallDir).
		Msg("parsed lua config")
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "ziro" table. A file that does not define
// it is an error; a table with no known fields is not.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal(luaGlobalZiro)
	table, ok := root.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid '" + luaGlobalZiro + "' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	cfg := &Config{}

	if artifact := table.RawGetString(luaFieldArtifact); artifact.Type() != lua.LTNil {
		at, ok := artifact.(*lua.LTable)
		if !ok {
			return nil, fieldTypeError(luaFieldArtifact, "table", artifact)
		}
		fields := []struct {
			name string
			dst  *string
		}{
			{luaFieldHost, &cfg.ArtifactHost},
			{luaFieldOwner, &cfg.Owner},
			{luaFieldRepo, &cfg.Repo},
		}
		for _, f := range fields {
			if err := stringField(at, f.name, luaFieldArtifact+"."+f.name, f.dst); err != nil {
				return nil, err
			}
		}
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{luaFieldNaming, &cfg.Naming},
		{luaFieldShortArch, &cfg.ShortArchSince},
		{luaFieldInstallDir, &cfg.InstallDir},
		{luaFieldExtractor, &cfg.Extractor},
		{luaFieldUserAgent, &cfg.UserAgent},
		{luaFieldLogLevel, &cfg.LogLevel},
	}
	for _, f := range fields {
		if err := stringField(table, f.name, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// stringField copies table[name] into dst. nil leaves dst untouched; any
// type other than string is rejected.
func stringField(table *lua.LTable, name, path string, dst *string) error {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTString:
		*dst = strings.TrimSpace(v.String())
		return nil
	default:
		return fieldTypeError(path, "string", v)
	}
}

func fieldTypeError(path, want string, got lua.LValue) error {
	return &ParseError{
		Message: "invalid value for " + path,
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}

	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
