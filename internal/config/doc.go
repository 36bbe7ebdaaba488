// Package config loads, normalizes, and validates recode-video configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECODE_VIDEO_CONFIG, FFMPEG_BINARY and FFPROBE_BINARY. Always obtain settings
// through this package so downstream code receives absolute paths, canonical
// log formats, and clear validation errors.
package config
