package workflow

import (
	"fmt"
	"log/slog"
	"strings"

	"recodevideo/internal/deps"
	"recodevideo/internal/logging"
	"recodevideo/internal/preflight"
	"recodevideo/internal/services"
)

// runPreflightChecks validates tool availability and run directories before
// any file is touched. Returns nil when all checks pass, or an error
// describing all failures.
func (r *Runner) runPreflightChecks(logger *slog.Logger) error {
	statuses := deps.CheckBinaries(deps.ToolRequirements(r.cfg.FFmpegBinary(), r.cfg.FFprobeBinary()))
	if missing := deps.Missing(statuses); len(missing) > 0 {
		logging.ErrorWithContext(logger, "required tools unavailable", "dependency_missing",
			logging.String("missing", deps.Describe(missing)),
			logging.String(logging.FieldErrorHint, "install ffmpeg or set tools.ffmpeg / tools.ffprobe"),
		)
		return services.Wrap(services.ErrConfiguration, "preflight", "check binaries", deps.Describe(missing), nil)
	}
	for _, status := range statuses {
		logger.Debug("dependency resolved",
			logging.String("dependency", status.Name),
			logging.String("path", status.Path),
		)
	}

	results := preflight.RunAll(r.cfg)
	for _, result := range results {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
		}
	}

	failed := preflight.Failed(results)
	failures := make([]string, 0, len(failed))
	for _, result := range failed {
		logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "fix the reported directory and re-run"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, "preflight", "check directories", strings.Join(failures, "; "), nil)
	}
	return nil
}
