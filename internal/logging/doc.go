// Package logging assembles structured slog loggers and formatting helpers used
// across recode-video.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so per-file code automatically
// tags log lines with the file, stage and run correlation ID. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
