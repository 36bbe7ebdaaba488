package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeVideo()
	c.normalizeScan()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = filepath.Join(c.Paths.LogDir, defaultLockFile)
	}
	if c.Paths.LockPath, err = expandPath(strings.TrimSpace(c.Paths.LockPath)); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = toolBinary(c.Tools.FFmpeg, "FFMPEG_BINARY", defaultFFmpegBinary)
	c.Tools.FFprobe = toolBinary(c.Tools.FFprobe, "FFPROBE_BINARY", defaultFFprobeBinary)
	if c.Tools.Threads == 0 {
		c.Tools.Threads = defaultThreads
	}
}

// toolBinary prefers the configured value, then the environment, then the
// bare binary name resolved through PATH.
func toolBinary(configured, envKey, fallback string) string {
	if value := strings.TrimSpace(configured); value != "" {
		return value
	}
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (c *Config) normalizeVideo() {
	c.Video.Encoder = strings.TrimSpace(c.Video.Encoder)
	if c.Video.Encoder == "" {
		c.Video.Encoder = defaultVideoEncoder
	}
	c.Video.Preset = strings.ToLower(strings.TrimSpace(c.Video.Preset))
	if c.Video.Preset == "" {
		c.Video.Preset = defaultPreset
	}
	c.Subtitles.TextCodec = strings.TrimSpace(c.Subtitles.TextCodec)
	if c.Subtitles.TextCodec == "" {
		c.Subtitles.TextCodec = defaultTextCodec
	}
}

func (c *Config) normalizeScan() {
	c.Scan.Extensions = trimList(c.Scan.Extensions)
	c.Scan.IgnoredDirs = trimList(c.Scan.IgnoredDirs)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	default:
		c.Logging.Level = level
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
