package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ziro-dev/ziro-dist/internal/platform"
)

// Installer orchestrates detect, locate, download, extract and finalize.
type Installer struct {
	installDir    string
	source        Source
	naming        Naming
	detector      platform.Detector
	fetcher       Fetcher
	extractor     Extractor
	extractorMode string
	progress      ProgressFunc
	logger        zerolog.Logger
	clock         Clock
}

// Config holds configuration for the installer
type Config struct {
	// InstallDir receives the archive and the final binary. Required.
	InstallDir string
	Source     Source
	Naming     Naming
	// Detector defaults to platform.NewDetector().
	Detector platform.Detector
	// Fetcher defaults to a Downloader using UserAgent.
	Fetcher   Fetcher
	UserAgent string
	// Extractor, when nil, is chosen from ExtractorMode after detection.
	Extractor     Extractor
	ExtractorMode string
	Progress      ProgressFunc
	Logger        zerolog.Logger
	Clock         Clock
}

// NewInstaller creates a new installer
func NewInstaller(config Config) (*Installer, error) {
	if config.InstallDir == "" {
		return nil, fmt.Errorf("InstallDir is required")
	}

	switch config.ExtractorMode {
	case "", ExtractorNative, ExtractorBuiltin, ExtractorAuto:
	default:
		return nil, fmt.Errorf("unknown extractor %q", config.ExtractorMode)
	}

	inst := &Installer{
		installDir:    config.InstallDir,
		source:        config.Source,
		naming:        config.Naming,
		detector:      config.Detector,
		fetcher:       config.Fetcher,
		extractor:     config.Extractor,
		extractorMode: config.ExtractorMode,
		progress:      config.Progress,
		logger:        config.Logger,
		clock:         config.Clock,
	}

	if inst.source == (Source{}) {
		inst.source = DefaultSource
	}
	if inst.naming.Convention == "" {
		inst.naming = DefaultNaming()
	}
	if inst.detector == nil {
		inst.detector = platform.NewDetector()
	}
	if inst.fetcher == nil {
		inst.fetcher = NewDownloader(config.UserAgent, config.Logger)
	}
	if inst.clock == nil {
		inst.clock = realClock{}
	}

	return inst, nil
}

// BinaryFileName returns the executable name for a platform.
func BinaryFileName(info *platform.Info) string {
	if info.IsWindows() {
		return BinaryName + WindowsSuffix
	}
	return BinaryName
}

// Install runs the full pipeline for version. Any failure aborts the
// remaining steps; nothing is retried.
func (i *Installer) Install(ctx context.Context, version string) (*InstallResult, error) {
	start := i.clock.Now()

	info, err := i.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	i.logger.Debug().
		Str("platform", info.Platform).
		Str("arch", info.Arch).
		Str("raw_platform", info.RawPlatform).
		Str("raw_arch", info.RawArch).
		Str("distro", info.Distro).
		Msg("detected platform")

	if err := os.MkdirAll(i.installDir, 0755); err != nil {
		return nil, fmt.Errorf("create install dir: %w", err)
	}

	target := Locate(i.source, i.naming, version, info)
	archivePath := filepath.Join(i.installDir, target.ArchiveName)
	binaryPath := filepath.Join(i.installDir, BinaryFileName(info))

	i.logger.Info().
		Str("version", version).
		Str("url", target.URL).
		Str("convention", string(target.Convention)).
		Msg("downloading release archive")

	if err := i.fetcher.Download(ctx, target.URL, archivePath, i.progress); err != nil {
		return nil, fmt.Errorf("download %s: %w", target.ArchiveName, err)
	}

	extractor := i.extractor
	if extractor == nil {
		extractor, err = SelectExtractor(i.extractorMode, info.Platform, i.logger)
		if err != nil {
			return nil, err
		}
	}

	i.logger.Debug().Str("archive", archivePath).Str("dest", i.installDir).Msg("extracting archive")
	if err := extractor.Extract(ctx, archivePath, i.installDir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", target.ArchiveName, err)
	}

	if err := os.Remove(archivePath); err != nil {
		i.logger.Warn().Err(err).Str("archive", archivePath).Msg("could not remove archive")
	}

	if info.IsWindows() {
		if err := addExeSuffix(i.installDir); err != nil {
			return nil, fmt.Errorf("finalize windows binary: %w", err)
		}
	}

	if _, err := os.Stat(binaryPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &BinaryNotFoundError{Path: binaryPath}
		}
		return nil, fmt.Errorf("stat binary: %w", err)
	}

	if !info.IsWindows() {
		if err := SetExecutable(binaryPath); err != nil {
			return nil, err
		}
	}

	result := &InstallResult{
		BinaryPath:  binaryPath,
		Executable:  true,
		Version:     version,
		ArchiveName: target.ArchiveName,
		URL:         target.URL,
		Duration:    i.clock.Now().Sub(start),
	}

	i.logger.Info().Str("path", binaryPath).Dur("duration", result.Duration).Msg("installed")
	return result, nil
}

// addExeSuffix renames an extension-less binary in dir to carry .exe,
// replacing any previous ziro.exe. It is a no-op when there is nothing to
// rename.
func addExeSuffix(dir string) error {
	bare := filepath.Join(dir, BinaryName)
	exe := bare + WindowsSuffix

	if _, err := os.Stat(bare); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.Remove(exe); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous %s: %w", filepath.Base(exe), err)
	}

	return os.Rename(bare, exe)
}

// SetExecutable sets rwxr-xr-x on path.
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return &PermissionError{Path: path, Err: err}
	}
	return nil
}

// IsInstalled reports whether an executable binary is present in dir.
func IsInstalled(dir string, info *platform.Info) (bool, error) {
	fi, err := os.Stat(filepath.Join(dir, BinaryFileName(info)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat binary: %w", err)
	}

	if !fi.Mode().IsRegular() {
		return false, nil
	}
	if !info.IsWindows() && fi.Mode().Perm()&0111 == 0 {
		return false, nil
	}
	return true, nil
}
