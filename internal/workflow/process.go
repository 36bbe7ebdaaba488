package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recodevideo/internal/encoding"
	"recodevideo/internal/language"
	"recodevideo/internal/logging"
	"recodevideo/internal/policy"
	"recodevideo/internal/preflight"
	"recodevideo/internal/services"
)

const (
	stageProbe     = "probe"
	stageEvaluate  = "evaluate"
	stagePreflight = "preflight"
	stageTransform = "transform"
)

// processFile runs one candidate through probe, policy and transform. It
// never returns a bare error; failures are carried on the Result.
func (r *Runner) processFile(ctx context.Context, path string) (result Result) {
	start := r.now()
	ctx = services.WithFile(ctx, path)
	result = Result{Path: path, Output: encoding.OutputPath(path)}
	defer func() {
		result.Elapsed = r.now().Sub(start)
	}()

	probeCtx := services.WithStage(ctx, stageProbe)
	probed, err := r.probe(probeCtx, r.cfg.FFprobeBinary(), path)
	if err != nil {
		return r.fail(probeCtx, result, services.Wrap(services.ErrExternalTool, stageProbe, "run ffprobe", path, err))
	}
	result.Streams = policy.StreamsFromProbe(probed)

	inspected := []logging.Attr{
		logging.Int("video_streams", probed.VideoStreamCount()),
		logging.Int("audio_streams", probed.AudioStreamCount()),
		logging.Int("subtitle_streams", probed.SubtitleStreamCount()),
	}
	if secs := probed.DurationSeconds(); secs > 0 {
		inspected = append(inspected, logging.Duration("duration", time.Duration(secs*float64(time.Second))))
	}
	if size := probed.SizeBytes(); size > 0 {
		inspected = append(inspected, logging.Int64("input_bytes", size))
	}
	logging.WithContext(probeCtx, r.logger).Info("media inspected", logging.Args(inspected...)...)

	evalCtx := services.WithStage(ctx, stageEvaluate)
	logger := logging.WithContext(evalCtx, r.logger)
	logStreams(logger, result.Streams)

	verdict, err := policy.Evaluate(result.Streams, r.policy)
	if err != nil {
		return r.fail(evalCtx, result, services.Wrap(services.ErrValidation, stageEvaluate, "classify streams", path, err))
	}
	if !verdict.NeedsTransform {
		logger.Info("file already compliant",
			logging.Args(logging.DecisionAttrs("transform", "skip", "every stream is kept as-is")...)...,
		)
		result.Outcome = OutcomeSkipped
		return result
	}
	result.Plan = verdict.Plan
	logger.Info("transform required",
		logging.Args(append(
			logging.DecisionAttrs("transform", "rewrite", planReason(verdict.Plan, result.Streams)),
			logging.Int("output_streams", len(verdict.Plan)),
		)...)...,
	)
	for _, entry := range verdict.Plan {
		logger.Debug("planned stream", logging.String("plan", entry.Describe()))
	}

	preflightCtx := services.WithStage(ctx, stagePreflight)
	if check := preflight.CheckOutput(path, result.Output); !check.Passed {
		return r.fail(preflightCtx, result, services.Wrap(services.ErrTransient, stagePreflight, "check output", check.Detail, nil))
	}

	tokens := encoding.Compile(verdict.Plan)
	result.Command = r.encoder.Command(path, tokens, result.Output)

	transformCtx := services.WithStage(ctx, stageTransform)
	if r.cfg.Run.DryRun {
		logging.WithContext(transformCtx, r.logger).Info("dry run: transform planned",
			logging.String(logging.FieldEventType, "transform_planned"),
			logging.String("command", strings.Join(result.Command, " ")),
			logging.String("output", result.Output),
		)
		result.Outcome = OutcomePlanned
		return result
	}

	transformed, err := r.transformer.Transform(transformCtx, path, tokens)
	if err != nil {
		return r.fail(transformCtx, result, err)
	}
	result.Outcome = OutcomeTransformed
	result.Output = transformed.Output
	result.Bytes = transformed.Bytes
	result.SourceRemoved = transformed.SourceRemoved
	return result
}

// fail records err on result and logs it against the file.
func (r *Runner) fail(ctx context.Context, result Result, err error) Result {
	result.Err = err
	result.Outcome = Outcome(services.FailureOutcome(err))

	logger := logging.WithContext(ctx, r.logger)
	attrs := []logging.Attr{
		logging.Error(err),
		logging.String("outcome", string(result.Outcome)),
		logging.Alert("file_" + string(result.Outcome)),
	}
	var classErr *policy.ClassificationError
	if errors.As(err, &classErr) {
		attrs = append(attrs,
			logging.Int("stream_index", classErr.StreamIndex),
			logging.String("codec_type", classErr.CodecType),
			logging.String("codec", classErr.Codec),
			logging.String(logging.FieldErrorHint, "remux or convert the offending stream manually"),
		)
	} else {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, failureHint(err)))
	}
	logging.ErrorWithContext(logger, "file "+string(result.Outcome), "file_"+string(result.Outcome), attrs...)
	return result
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "the original file was left untouched"
	case errors.Is(err, services.ErrExternalTool):
		return "inspect the ffmpeg/ffprobe output above; the original file was left untouched"
	case errors.Is(err, services.ErrTransient):
		return "check permissions and free space in the output directory"
	default:
		return "check logs for details"
	}
}

func logStreams(logger *slog.Logger, streams []policy.Stream) {
	for _, s := range streams {
		attrs := []logging.Attr{
			logging.Int("stream_index", s.InputIndex),
			logging.String("codec_type", s.CodecType),
			logging.String("codec", s.CodecName),
			logging.Bool("default", s.Default),
		}
		if s.Language != "" {
			attrs = append(attrs, logging.String("language", language.DisplayName(s.Language)))
		}
		logger.Debug("probed stream", logging.Args(attrs...)...)
	}
}

// planReason summarises why a file needs rewriting.
func planReason(plan []policy.OutputStream, streams []policy.Stream) string {
	var transcodes, conversions, flagged int
	kept := make(map[int]struct{}, len(plan))
	for _, entry := range plan {
		kept[entry.InputIndex] = struct{}{}
		switch entry.Action {
		case policy.ActionTranscode:
			transcodes++
		case policy.ActionConvertSubtitle:
			conversions++
		}
		if entry.Default != policy.DefaultUnchanged {
			flagged++
		}
	}
	var parts []string
	if transcodes > 0 {
		parts = append(parts, fmt.Sprintf("%d video transcode", transcodes))
	}
	if conversions > 0 {
		parts = append(parts, fmt.Sprintf("%d subtitle conversion", conversions))
	}
	if flagged > 0 {
		parts = append(parts, fmt.Sprintf("%d disposition change", flagged))
	}
	if dropped := len(streams) - len(kept); dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", dropped))
	}
	if len(parts) == 0 {
		return "container rewrite"
	}
	return strings.Join(parts, ", ")
}

