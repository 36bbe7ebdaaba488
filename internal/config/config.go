package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "RECODE_VIDEO_CONFIG"

// Paths contains log, lock and scratch locations.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	LockPath string `toml:"lock_path"`
	// TempDir holds ffmpeg output before it is copied next to the target.
	// Empty writes the output beside the target directly.
	TempDir string `toml:"temp_dir"`
}

// Tools locates the external binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	Threads int    `toml:"threads"`
}

// Video holds the settings used when a video stream is re-encoded.
type Video struct {
	Encoder string `toml:"encoder"`
	CRF     int    `toml:"crf"`
	Preset  string `toml:"preset"`
}

// Subtitles holds the target codec for text subtitle conversion.
type Subtitles struct {
	TextCodec string `toml:"text_codec"`
}

// Scan controls which files are picked up from the command line roots.
type Scan struct {
	Extensions  []string `toml:"extensions"`
	IgnoredDirs []string `toml:"ignored_dirs"`
}

// Run controls batch behaviour.
type Run struct {
	ContinueOnError bool `toml:"continue_on_error"`
	DryRun          bool `toml:"dry_run"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for recode-video.
//
// Configuration sections by subsystem:
//   - Paths: log directory, run lock and scratch directory
//   - Tools: ffmpeg/ffprobe binaries and encoder threads
//   - Video: encoder, CRF and preset for re-encoded video
//   - Subtitles: text subtitle target codec
//   - Scan: candidate extensions and ignored directories
//   - Run: dry run and error handling
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Video     Video     `toml:"video"`
	Subtitles Subtitles `toml:"subtitles"`
	Scan      Scan      `toml:"scan"`
	Run       Run       `toml:"run"`
	Logging   Logging   `toml:"logging"`
}

// Load locates, parses, and validates a configuration file. An empty path
// falls back to RECODE_VIDEO_CONFIG, then the user config file, then
// ./recode-video.toml. A missing file yields the defaults. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory, the lock file's parent and the
// scratch directory when one is configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.LockPath)}
	if c.Paths.TempDir != "" {
		dirs = append(dirs, c.Paths.TempDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for transforms.
func (c *Config) FFmpegBinary() string {
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable used for inspection.
func (c *Config) FFprobeBinary() string {
	return c.Tools.FFprobe
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
