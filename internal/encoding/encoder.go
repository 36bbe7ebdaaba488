package encoding

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"recodevideo/internal/fileutil"
	"recodevideo/internal/logging"
	"recodevideo/internal/services"
)

const (
	defaultFFmpegBinary = "ffmpeg"
	defaultThreads      = 16
	// stderrTailBytes bounds how much ffmpeg stderr is carried in errors.
	stderrTailBytes = 2048
)

// Options configures the ffmpeg invocation.
type Options struct {
	FFmpegBinary string
	Threads      int
	// TempDir receives ffmpeg output before it is copied next to the target.
	// Empty writes straight into the pending file beside the target.
	TempDir string
}

// Encoder rewrites media files with ffmpeg.
type Encoder struct {
	ffmpeg  string
	threads int
	tempDir string
	logger  *slog.Logger
}

// Result describes a completed transform.
type Result struct {
	Source        string
	Output        string
	Bytes         int64
	SourceRemoved bool
	Elapsed       time.Duration
}

// NewEncoder constructs an Encoder, falling back to "ffmpeg" and 16 threads.
func NewEncoder(opts Options, logger *slog.Logger) *Encoder {
	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = defaultFFmpegBinary
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = defaultThreads
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Encoder{
		ffmpeg:  binary,
		threads: threads,
		tempDir: strings.TrimSpace(opts.TempDir),
		logger:  logging.NewComponentLogger(logger, "encoder"),
	}
}

// Command returns the full ffmpeg argv that writes source, rewritten with
// tokens, to dest.
func (e *Encoder) Command(source string, tokens []string, dest string) []string {
	args := make([]string, 0, len(tokens)+12)
	args = append(args,
		e.ffmpeg,
		"-hide_banner",
		"-nostdin",
		"-threads", strconv.Itoa(e.threads),
		"-y",
		"-i", source,
	)
	args = append(args, tokens...)
	return append(args, "-f", "matroska", dest)
}

// Transform runs ffmpeg over source and atomically replaces OutputPath(source)
// with the result, keeping the source's permission bits. The source is
// deleted afterwards when the output path differs. On any failure the
// temporary output is removed and the source is left untouched.
func (e *Encoder) Transform(ctx context.Context, source string, tokens []string) (Result, error) {
	start := time.Now()
	logger := logging.WithContext(ctx, e.logger)
	output := OutputPath(source)

	info, err := os.Stat(source)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transform", "stat source", "source file is not readable", err)
	}
	if output != source {
		if _, err := os.Stat(output); err == nil {
			logging.WarnWithContext(logger, "existing output will be replaced", "output_overwrite",
				logging.String("output", output),
				logging.String(logging.FieldImpact, "the existing file at the output path is overwritten by the transformed source"),
				logging.String(logging.FieldErrorHint, "move the existing file aside first to keep it"),
			)
		}
	}

	pending, err := renameio.NewPendingFile(output, renameio.WithPermissions(info.Mode().Perm()))
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transform", "reserve temporary file", "failed to create pending output", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug("cleanup pending output", logging.Error(err))
		}
	}()

	target := pending.Name()
	if e.tempDir != "" {
		if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
			return Result{}, services.Wrap(services.ErrTransient, "transform", "prepare temp dir", "failed to create temp directory", err)
		}
		target = filepath.Join(e.tempDir, "recode-"+uuid.NewString()+".mkv")
		defer func() {
			_ = os.Remove(target)
		}()
	}

	argv := e.Command(source, tokens, target)
	logger.Info(
		"launching ffmpeg",
		logging.String("command", strings.Join(argv, " ")),
		logging.String("output", output),
	)
	if stderr, err := runCommand(ctx, argv[0], argv[1:]...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("transform %s: %w", source, ctxErr)
		}
		return Result{}, services.Wrap(
			services.ErrExternalTool,
			"transform",
			"run ffmpeg",
			stderrTail(stderr),
			err,
		)
	}

	size, err := verifyOutput(target)
	if err != nil {
		return Result{}, err
	}
	if target != pending.Name() {
		if err := fileutil.CopyFileVerified(target, pending.Name()); err != nil {
			return Result{}, services.Wrap(services.ErrTransient, "transform", "stage output", "failed to copy output from temp directory", err)
		}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transform", "replace output", "failed to move output into place", err)
	}

	removed, err := removeSource(source, output)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Source:        source,
		Output:        output,
		Bytes:         size,
		SourceRemoved: removed,
		Elapsed:       time.Since(start),
	}
	logger.Info(
		"transform complete",
		logging.String("output", output),
		logging.Int64("output_bytes", size),
		logging.Bool("source_removed", removed),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// runCommand executes name with args and returns its captured stderr.
var runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return "ffmpeg exited with an error"
	}
	if len(stderr) > stderrTailBytes {
		stderr = "..." + stderr[len(stderr)-stderrTailBytes:]
	}
	return stderr
}
