// Package cli implements the ziro-install command run after the package is
// installed.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziro-dev/ziro-dist/internal/binary"
	"github.com/ziro-dev/ziro-dist/internal/config"
	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// errNotInstalled makes `status` exit 1 without printing an error.
var errNotInstalled = errors.New("ziro is not installed")

type rootOptions struct {
	packageRoot string
	installDir  string
	configFile  string
	naming      string
	extractor   string
	pkgVersion  string
	debug       bool

	// detector is replaced in tests.
	detector platform.Detector
}

// settings is the resolved configuration shared by the subcommands.
type settings struct {
	cfg         *config.Config
	platform    *platform.Info
	packageRoot string
	logger      zerolog.Logger
}

// NewRootCmd creates the ziro-install command.
func NewRootCmd(ver string) *cobra.Command {
	return newRootCmd(ver, &rootOptions{detector: platform.NewDetector()})
}

func newRootCmd(ver string, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ziro-install [version]",
		Short: "Download the prebuilt ziro binary for this platform",
		Long: `Downloads the ziro release archive matching this operating system and CPU,
unpacks it into the package's bin directory and marks the binary executable.

The version defaults to npm_package_version, then to the version field of
package.json in the package root.`,
		Version:       ver,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.packageRoot, "package-root", "", "package root directory (default: directory of this executable)")
	pf.StringVar(&opts.installDir, "install-dir", "", "directory receiving the binary (default: <package-root>/bin)")
	pf.StringVar(&opts.configFile, "config", "", "Lua config file (default: $ZIRO_CONFIG_FILE or <package-root>/ziro.lua)")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	f := cmd.Flags()
	f.StringVar(&opts.naming, "naming", "", "archive naming convention: v1, v2 or auto")
	f.StringVar(&opts.extractor, "extractor", "", "archive extractor: native, builtin or auto")
	f.StringVar(&opts.pkgVersion, "pkg-version", "", "release version to install")

	cmd.AddCommand(newStatusCmd(opts))
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ver string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCmd(ver))
}

func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ie *installError
	switch {
	case errors.As(err, &ie):
		writeFailureReport(cmd.ErrOrStderr(), ie)
	case errors.Is(err, errNotInstalled):
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", config.FormatError(err, false))
	}
	return 1
}

// loadSettings layers config defaults, Lua file, environment and flags. info
// is the already detected host, exposed to the Lua file as its platform table.
func loadSettings(cmd *cobra.Command, opts *rootOptions, info *platform.Info) (*settings, error) {
	root, err := packageRoot(opts.packageRoot)
	if err != nil {
		return nil, err
	}

	bootLevel := zerolog.InfoLevel.String()
	if opts.debug {
		bootLevel = zerolog.DebugLevel.String()
	}
	bootLogger := config.NewLogger(bootLevel, cmd.ErrOrStderr())

	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		PackageRoot: root,
		ConfigFile:  opts.configFile,
		Detector:    platform.StaticDetector{Info: info},
		Logger:      bootLogger,
	})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("naming") {
		cfg.Naming = opts.naming
	}
	if flags.Changed("extractor") {
		cfg.Extractor = opts.extractor
	}
	if opts.installDir != "" {
		cfg.InstallDir = opts.installDir
	}
	if opts.debug {
		cfg.LogLevel = zerolog.DebugLevel.String()
	}
	if cfg.InstallDir == "" {
		cfg.InstallDir = filepath.Join(root, "bin")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr()).With().Str("component", "installer").Logger()
	logger.Debug().
		Str("package_root", root).
		Str("install_dir", cfg.InstallDir).
		Str("config_file", cfg.ConfigFile).
		Str("naming", cfg.Naming).
		Str("extractor", cfg.Extractor).
		Msg("settings resolved")

	return &settings{cfg: cfg, platform: info, packageRoot: root, logger: logger}, nil
}

// packageRoot returns flagValue, or the directory holding this executable.
func packageRoot(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func runInstall(cmd *cobra.Command, opts *rootOptions, args []string) error {
	// Detection runs before any file is read so an unsupported host always
	// gets the failure report.
	info, err := opts.detector.Detect(cmd.Context())
	if err != nil {
		return &installError{Source: config.Default().Source(), Err: err}
	}

	s, err := loadSettings(cmd, opts, info)
	if err != nil {
		return err
	}

	version, from, err := resolveVersion(args, opts.pkgVersion, os.LookupEnv, s.packageRoot)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("version", version).Str("from", from).Msg("resolved version")

	naming, err := s.cfg.NamingPolicy()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	renderer := newProgressRenderer(stderr, isTerminal(stderr))

	installer, err := binary.NewInstaller(binary.Config{
		InstallDir:    s.cfg.InstallDir,
		Source:        s.cfg.Source(),
		Naming:        naming,
		Detector:      platform.StaticDetector{Info: s.platform},
		UserAgent:     s.cfg.UserAgent,
		ExtractorMode: s.cfg.Extractor,
		Progress:      renderer.Update,
		Logger:        s.logger,
	})
	if err != nil {
		return err
	}

	result, err := installer.Install(cmd.Context(), version)
	if err != nil {
		return &installError{Version: version, Source: s.cfg.Source(), Err: err}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ziro %s installed to %s\n", result.Version, result.BinaryPath)
	return nil
}
