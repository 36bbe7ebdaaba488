package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recodevideo/internal/config"
	"recodevideo/internal/encoding"
	"recodevideo/internal/logging"
	"recodevideo/internal/media/ffprobe"
	"recodevideo/internal/policy"
	"recodevideo/internal/scan"
	"recodevideo/internal/services"
)

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Transformer rewrites a file with compiled ffmpeg stream arguments.
type Transformer interface {
	Transform(ctx context.Context, source string, tokens []string) (encoding.Result, error)
}

// Runner processes the candidate files of one invocation.
type Runner struct {
	cfg         *config.Config
	logger      *slog.Logger
	probe       ProbeFunc
	encoder     *encoding.Encoder
	transformer Transformer
	policy      policy.Options
	scan        scan.Options
	now         func() time.Time
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithProbe replaces ffprobe.Inspect.
func WithProbe(fn ProbeFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.probe = fn
		}
	}
}

// WithTransformer replaces the ffmpeg encoder used for transforms. Dry-run
// commands are still rendered by the configured encoder.
func WithTransformer(t Transformer) Option {
	return func(r *Runner) {
		if t != nil {
			r.transformer = t
		}
	}
}

// NewRunner constructs a Runner from a loaded configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow runner requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	encoder := encoding.NewEncoder(encoding.Options{
		FFmpegBinary: cfg.FFmpegBinary(),
		Threads:      cfg.Tools.Threads,
		TempDir:      cfg.Paths.TempDir,
	}, logger)
	r := &Runner{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		probe:       ffprobe.Inspect,
		encoder:     encoder,
		transformer: encoder,
		policy: policy.Options{
			VideoCodec:    cfg.Video.Encoder,
			Encoder:       policy.EncoderParams{CRF: cfg.Video.CRF, Preset: cfg.Video.Preset},
			SubtitleCodec: cfg.Subtitles.TextCodec,
		},
		scan: scan.Options{
			Extensions:  cfg.Scan.Extensions,
			IgnoredDirs: cfg.Scan.IgnoredDirs,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes every candidate under roots. The returned error is non-nil
// when the run could not start, was cancelled, or was aborted by the first
// per-file error with continue_on_error disabled. The Summary always holds
// the results gathered so far.
func (r *Runner) Run(ctx context.Context, roots []string) (summary Summary, err error) {
	summary = Summary{
		RunID:   uuid.NewString(),
		DryRun:  r.cfg.Run.DryRun,
		Started: r.now(),
	}
	defer func() {
		summary.Duration = r.now().Sub(summary.Started)
	}()

	ctx = services.WithRequestID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	unlock, err := r.acquireLock()
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release run lock", "lock_release_failed",
				logging.Error(err),
				logging.String("lock", r.cfg.Paths.LockPath),
				logging.String(logging.FieldErrorHint, "remove the lock file if no other run is active"),
			)
		}
	}()

	if err := r.runPreflightChecks(logger); err != nil {
		return summary, err
	}

	candidates, err := scan.Discover(roots, r.scan)
	if err != nil {
		return summary, fmt.Errorf("discover candidates: %w", err)
	}
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("candidates", len(candidates)),
		logging.Bool("dry_run", r.cfg.Run.DryRun),
		logging.Bool("continue_on_error", r.cfg.Run.ContinueOnError),
	)

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "run cancelled", "run_cancelled",
				logging.Int("processed", len(summary.Results)),
				logging.Int("remaining", len(candidates)-len(summary.Results)),
				logging.String(logging.FieldImpact, "remaining files were not processed"),
				logging.String(logging.FieldErrorHint, "re-run to process the remaining files"),
			)
			return summary, fmt.Errorf("run cancelled: %w", err)
		}

		result := r.processFile(ctx, path)
		summary.Results = append(summary.Results, result)

		if result.Err != nil && !r.cfg.Run.ContinueOnError {
			return summary, result.Err
		}
	}

	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("transformed", summary.Count(OutcomeTransformed)),
		logging.Int("skipped", summary.Count(OutcomeSkipped)),
		logging.Int("planned", summary.Count(OutcomePlanned)),
		logging.Int("rejected", summary.Count(OutcomeRejected)),
		logging.Int("failed", summary.Count(OutcomeFailed)),
		logging.Duration("elapsed", r.now().Sub(summary.Started)),
	)
	return summary, nil
}

// acquireLock takes the exclusive run lock so two runs never replace the
// same files concurrently.
func (r *Runner) acquireLock() (func() error, error) {
	lockPath := r.cfg.Paths.LockPath
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "create lock dir", lockPath, err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another recode-video run holds %s", lockPath)
	}
	return lock.Unlock, nil
}
