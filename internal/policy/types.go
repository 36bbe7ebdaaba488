package policy

import (
	"fmt"
	"strings"
)

// Codec types reported by ffprobe.
const (
	CodecTypeVideo      = "video"
	CodecTypeAudio      = "audio"
	CodecTypeSubtitle   = "subtitle"
	CodecTypeAttachment = "attachment"
	CodecTypeData       = "data"
)

// Stream is the immutable view of one probed elementary stream.
type Stream struct {
	InputIndex int
	CodecType  string
	CodecName  string
	Default    bool

	// Language and Title are carried for reporting only; no rule reads them.
	Language string
	Title    string
}

// Action is the codec action applied to one output stream.
type Action int

const (
	// ActionCopy remuxes the stream without re-encoding.
	ActionCopy Action = iota
	// ActionTranscode re-encodes a video stream with the target encoder.
	ActionTranscode
	// ActionConvertSubtitle converts a subtitle stream to the text subtitle codec.
	ActionConvertSubtitle
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionTranscode:
		return "transcode"
	case ActionConvertSubtitle:
		return "convert-subtitle"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// DefaultFlag is the tri-state override of the "default" disposition.
type DefaultFlag int

const (
	DefaultUnchanged DefaultFlag = iota
	DefaultSet
	DefaultClear
)

func (d DefaultFlag) String() string {
	switch d {
	case DefaultSet:
		return "set"
	case DefaultClear:
		return "clear"
	default:
		return "unchanged"
	}
}

// EncoderParams holds the video encoder settings used for transcodes.
type EncoderParams struct {
	CRF    int
	Preset string
}

// OutputStream is one entry of the output plan.
type OutputStream struct {
	InputIndex int
	Action     Action
	// Codec is the target codec for transcodes and subtitle conversions; empty for copies.
	Codec   string
	Default DefaultFlag
	// Encoder is set only when Action is ActionTranscode.
	Encoder *EncoderParams
}

// Describe renders a compact human readable form, e.g. "0:1 copy default=clear".
func (o OutputStream) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "0:%d %s", o.InputIndex, o.Action)
	if o.Codec != "" {
		b.WriteString(" -> ")
		b.WriteString(o.Codec)
	}
	if o.Encoder != nil {
		fmt.Fprintf(&b, " crf=%d preset=%s", o.Encoder.CRF, o.Encoder.Preset)
	}
	if o.Default != DefaultUnchanged {
		b.WriteString(" default=")
		b.WriteString(o.Default.String())
	}
	return b.String()
}

// Decision is the classifier result for a single stream. An empty Outputs
// slice means the stream is dropped.
type Decision struct {
	Outputs        []OutputStream
	ForceTransform bool
}

// Verdict is the file-level result of Evaluate. Plan is empty whenever
// NeedsTransform is false.
type Verdict struct {
	NeedsTransform bool
	Plan           []OutputStream
}

// Options configures the targets used by transcode and conversion actions.
type Options struct {
	VideoCodec    string
	Encoder       EncoderParams
	SubtitleCodec string
}

const (
	defaultVideoCodec    = "libx264"
	defaultCRF           = 20
	defaultPreset        = "medium"
	defaultSubtitleCodec = "srt"
)

// DefaultOptions returns libx264 at CRF 20 / medium, converting subtitles to srt.
func DefaultOptions() Options {
	return Options{
		VideoCodec:    defaultVideoCodec,
		Encoder:       EncoderParams{CRF: defaultCRF, Preset: defaultPreset},
		SubtitleCodec: defaultSubtitleCodec,
	}
}

// withDefaults treats the zero Options as DefaultOptions and fills any blank
// codec or preset names.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		return d
	}
	if strings.TrimSpace(o.VideoCodec) == "" {
		o.VideoCodec = d.VideoCodec
	}
	if strings.TrimSpace(o.Encoder.Preset) == "" {
		o.Encoder.Preset = d.Encoder.Preset
	}
	if strings.TrimSpace(o.SubtitleCodec) == "" {
		o.SubtitleCodec = d.SubtitleCodec
	}
	return o
}
