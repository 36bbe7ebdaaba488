package preflight

import (
	"recodevideo/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the run-level directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Log directory (always checked)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// Temp directory (when configured)
	if cfg.Paths.TempDir != "" {
		results = append(results, CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
