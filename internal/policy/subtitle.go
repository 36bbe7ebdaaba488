package policy

import (
	"slices"
)

// Subtitle codec names as reported by ffprobe.
const (
	codecMovText = "mov_text"
	codecWebVTT  = "webvtt"
	codecASS     = "ass"
	codecSubRip  = "subrip"
	codecPGS     = "hdmv_pgs_subtitle"
)

// SubtitleSet holds the sorted multisets of subtitle codecs in one file: All
// covers every subtitle stream, Defaults only those flagged default.
type SubtitleSet struct {
	All      []string
	Defaults []string
}

// NewSubtitleSet collects the subtitle codec multisets for streams.
func NewSubtitleSet(streams []Stream) SubtitleSet {
	var set SubtitleSet
	for _, stream := range streams {
		if stream.CodecType != CodecTypeSubtitle {
			continue
		}
		set.All = append(set.All, stream.CodecName)
		if stream.Default {
			set.Defaults = append(set.Defaults, stream.CodecName)
		}
	}
	slices.Sort(set.All)
	slices.Sort(set.Defaults)
	return set
}

func (s SubtitleSet) allIs(codecs ...string) bool {
	return multisetEqual(s.All, codecs)
}

func (s SubtitleSet) defaultsIs(codecs ...string) bool {
	return multisetEqual(s.Defaults, codecs)
}

// allWithin reports whether every subtitle codec in the file is in allowed.
func (s SubtitleSet) allWithin(allowed ...string) bool {
	for _, codec := range s.All {
		if !slices.Contains(allowed, codec) {
			return false
		}
	}
	return true
}

func multisetEqual(sorted []string, want []string) bool {
	if len(sorted) != len(want) {
		return false
	}
	w := slices.Clone(want)
	slices.Sort(w)
	return slices.Equal(sorted, w)
}

// classifySubtitle applies the subtitle rules in precedence order; the first
// match wins.
func classifySubtitle(stream Stream, subs SubtitleSet, opts Options) (Decision, error) {
	idx := stream.InputIndex
	convert := OutputStream{InputIndex: idx, Action: ActionConvertSubtitle, Codec: opts.SubtitleCodec, Default: DefaultSet}

	switch {
	case stream.CodecName == codecMovText:
		return Decision{Outputs: []OutputStream{convert}, ForceTransform: true}, nil

	case subs.allIs(codecWebVTT), subs.allIs(codecASS):
		// Keep the raw original next to the converted track.
		original := OutputStream{InputIndex: idx, Action: ActionCopy, Default: DefaultClear}
		return Decision{Outputs: []OutputStream{convert, original}, ForceTransform: true}, nil

	case subs.allIs(codecSubRip, codecWebVTT) && subs.defaultsIs(codecWebVTT),
		subs.allIs(codecASS, codecSubRip) && subs.defaultsIs(codecASS):
		// Promote the subrip track to default. The flag change alone requires a remux.
		flag := DefaultClear
		if stream.CodecName == codecSubRip {
			flag = DefaultSet
		}
		return Decision{
			Outputs:        []OutputStream{{InputIndex: idx, Action: ActionCopy, Default: flag}},
			ForceTransform: true,
		}, nil

	case subs.defaultsIs(codecSubRip) &&
		(subs.allIs(codecSubRip, codecWebVTT) || subs.allIs(codecASS, codecSubRip) || subs.allIs(codecSubRip)):
		return copyStream(stream), nil

	case subs.allWithin(codecSubRip, codecPGS):
		return copyStream(stream), nil
	}

	err := classificationError(ErrUnhandledSubtitleCombination, stream)
	err.Codecs = slices.Clone(subs.All)
	return Decision{}, err
}
