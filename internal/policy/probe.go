package policy

import (
	"strings"

	"recodevideo/internal/media/ffprobe"
)

// StreamsFromProbe converts ffprobe streams into policy streams. The input
// index is the stream's position in the probe output, which is the index
// ffmpeg's "-map 0:N" selects.
func StreamsFromProbe(result ffprobe.Result) []Stream {
	streams := make([]Stream, 0, len(result.Streams))
	for position, s := range result.Streams {
		streams = append(streams, Stream{
			InputIndex: position,
			CodecType:  strings.ToLower(strings.TrimSpace(s.CodecType)),
			CodecName:  strings.TrimSpace(s.CodecName),
			Default:    s.IsDefault(),
			Language:   strings.TrimSpace(s.Tags.Language),
			Title:      strings.TrimSpace(s.Tags.Title),
		})
	}
	return streams
}
