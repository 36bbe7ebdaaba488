package testsupport

import (
	"path/filepath"
	"testing"

	"recodevideo/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool binaries point at "ffmpeg" and "ffprobe" unless WithStubbedBinaries is
// applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockPath = filepath.Join(base, "logs", "recode-video.lock")
	cfgVal.Tools.FFmpeg = "ffmpeg"
	cfgVal.Tools.FFprobe = "ffprobe"
	cfgVal.Tools.Threads = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithStubbedBinaries writes stub ffmpeg and ffprobe executables and points
// the config at them. ffmpegBody is the shell body of the ffmpeg stub; empty
// uses FFmpegWritesOutput.
func WithStubbedBinaries(ffmpegBody string) ConfigOption {
	return func(b *configBuilder) {
		if ffmpegBody == "" {
			ffmpegBody = FFmpegWritesOutput
		}
		b.cfg.Tools.FFmpeg = StubBinary(b.t, "ffmpeg", ffmpegBody)
		b.cfg.Tools.FFprobe = StubBinary(b.t, "ffprobe", "exit 0\n")
	}
}

// WithTempDir routes ffmpeg output through a scratch directory.
func WithTempDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.TempDir = filepath.Join(b.baseDir, "tmp")
	}
}

// WithDryRun toggles run.dry_run.
func WithDryRun(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.DryRun = enabled
	}
}

// WithContinueOnError toggles run.continue_on_error.
func WithContinueOnError(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.ContinueOnError = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
