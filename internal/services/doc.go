// Package services defines shared utilities consumed by the per-file
// processing stages and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp the current file, stage name, and run
//     correlation identifier for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run outcomes (rejected vs failed).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
