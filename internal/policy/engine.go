package policy

import (
	"slices"
)

// Evaluate decides whether a file needs to be rewritten and builds its output
// plan. Streams are classified in input order; the returned plan is sorted by
// InputIndex, with entries sharing an index kept in emission order. Files
// without a video stream are rejected with ErrNoVideoStream.
func Evaluate(streams []Stream, opts Options) (Verdict, error) {
	if !hasVideo(streams) {
		return Verdict{}, ErrNoVideoStream
	}
	opts = opts.withDefaults()
	subs := NewSubtitleSet(streams)

	var plan []OutputStream
	needsTransform := false
	for _, stream := range streams {
		decision, err := Classify(stream, subs, opts)
		if err != nil {
			return Verdict{}, err
		}
		plan = append(plan, decision.Outputs...)
		needsTransform = needsTransform || decision.ForceTransform
	}

	if !needsTransform {
		return Verdict{}, nil
	}
	slices.SortStableFunc(plan, func(a, b OutputStream) int {
		return a.InputIndex - b.InputIndex
	})
	return Verdict{NeedsTransform: true, Plan: plan}, nil
}

func hasVideo(streams []Stream) bool {
	for _, stream := range streams {
		if stream.CodecType == CodecTypeVideo {
			return true
		}
	}
	return false
}
