package policy

// Video codecs that must be re-encoded, and those the target container carries as-is.
var (
	transcodeVideoCodecs = map[string]struct{}{"vc1": {}, "hevc": {}, "vp9": {}, "av1": {}}
	copyVideoCodecs      = map[string]struct{}{"h264": {}, "mjpeg": {}, "png": {}}
)

// dropDataCodec is the only data stream codec we know how to handle: it is
// removed from the output.
const dropDataCodec = "bin_data"

// Classify returns the plan fragment for a single stream. subs describes every
// subtitle stream of the file and is only consulted for subtitle streams.
func Classify(stream Stream, subs SubtitleSet, opts Options) (Decision, error) {
	opts = opts.withDefaults()
	switch stream.CodecType {
	case CodecTypeVideo:
		return classifyVideo(stream, opts)
	case CodecTypeAudio, CodecTypeAttachment:
		return copyStream(stream), nil
	case CodecTypeSubtitle:
		return classifySubtitle(stream, subs, opts)
	case CodecTypeData:
		return classifyData(stream)
	default:
		return Decision{}, classificationError(ErrUnknownStreamType, stream)
	}
}

func classifyVideo(stream Stream, opts Options) (Decision, error) {
	if _, ok := transcodeVideoCodecs[stream.CodecName]; ok {
		encoder := opts.Encoder
		return Decision{
			Outputs: []OutputStream{{
				InputIndex: stream.InputIndex,
				Action:     ActionTranscode,
				Codec:      opts.VideoCodec,
				Default:    DefaultSet,
				Encoder:    &encoder,
			}},
			ForceTransform: true,
		}, nil
	}
	if _, ok := copyVideoCodecs[stream.CodecName]; ok {
		return copyStream(stream), nil
	}
	return Decision{}, classificationError(ErrUnhandledVideoCodec, stream)
}

func classifyData(stream Stream) (Decision, error) {
	if stream.CodecName == dropDataCodec {
		// Dropping a stream changes the container, so the file must be rewritten.
		return Decision{ForceTransform: true}, nil
	}
	return Decision{}, classificationError(ErrUnknownDataCodec, stream)
}

func copyStream(stream Stream) Decision {
	return Decision{Outputs: []OutputStream{{InputIndex: stream.InputIndex, Action: ActionCopy}}}
}
