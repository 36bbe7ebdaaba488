package policy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVideoStream rejects files without any video stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrUnhandledVideoCodec reports a video codec with no copy or transcode rule.
	ErrUnhandledVideoCodec = errors.New("unhandled video codec")
	// ErrUnhandledSubtitleCombination reports a subtitle layout no rule matches.
	ErrUnhandledSubtitleCombination = errors.New("unhandled subtitle codec combination")
	// ErrUnknownDataCodec reports a data stream that is not bin_data.
	ErrUnknownDataCodec = errors.New("unknown data stream codec")
	// ErrUnknownStreamType reports a codec_type outside the known set.
	ErrUnknownStreamType = errors.New("unknown stream type")
)

// ClassificationError describes the stream that stopped evaluation of a file.
// Kind is one of the sentinel errors above and is exposed through Unwrap.
type ClassificationError struct {
	Kind        error
	StreamIndex int
	CodecType   string
	Codec       string
	// Codecs lists every subtitle codec in the file for subtitle combination errors.
	Codecs []string
}

func (e *ClassificationError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnknownStreamType):
		return fmt.Sprintf("%v %q (stream %d)", e.Kind, e.CodecType, e.StreamIndex)
	case len(e.Codecs) > 0:
		return fmt.Sprintf("%v [%s] (stream %d)", e.Kind, strings.Join(e.Codecs, ", "), e.StreamIndex)
	default:
		return fmt.Sprintf("%v %q (stream %d, %s)", e.Kind, e.Codec, e.StreamIndex, e.CodecType)
	}
}

func (e *ClassificationError) Unwrap() error {
	return e.Kind
}

func classificationError(kind error, stream Stream) *ClassificationError {
	return &ClassificationError{
		Kind:        kind,
		StreamIndex: stream.InputIndex,
		CodecType:   stream.CodecType,
		Codec:       stream.CodecName,
	}
}
