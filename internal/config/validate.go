package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var x26xPresets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return errors.New("tools.ffprobe must be set")
	}
	if c.Tools.Threads < 1 {
		return errors.New("tools.threads must be positive")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return fmt.Errorf("video.crf must be between 0 and 51, got %d", c.Video.CRF)
	}
	switch c.Video.Encoder {
	case "libx264", "libx265":
		if !slices.Contains(x26xPresets, c.Video.Preset) {
			return fmt.Errorf("video.preset %q is not a valid %s preset (expected one of %s)", c.Video.Preset, c.Video.Encoder, strings.Join(x26xPresets, ", "))
		}
	}
	if strings.TrimSpace(c.Subtitles.TextCodec) == "" {
		return errors.New("subtitles.text_codec must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("scan.extensions entry %q must start with a dot", ext)
		}
	}
	for _, dir := range c.Scan.IgnoredDirs {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("scan.ignored_dirs entry %q must be a directory name, not a path", dir)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported (use debug, info, warn or error)", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}
