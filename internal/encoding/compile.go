package encoding

import (
	"fmt"
	"strconv"

	"recodevideo/internal/policy"
)

// StreamArgs is the typed form of the ffmpeg options for one output stream.
type StreamArgs struct {
	OutputIndex int
	InputIndex  int
	// Codec is "copy" or the target encoder/subtitle codec.
	Codec string
	// CRF and Preset are only set for transcodes.
	CRF    *int
	Preset string
	// Disposition is "+default", "-default" or empty when the flag is untouched.
	Disposition string
}

// Tokens renders the record as ffmpeg arguments.
func (a StreamArgs) Tokens() []string {
	out := strconv.Itoa(a.OutputIndex)
	tokens := []string{
		"-map", fmt.Sprintf("0:%d", a.InputIndex),
		"-c:" + out, a.Codec,
	}
	if a.CRF != nil {
		tokens = append(tokens, "-crf:"+out, strconv.Itoa(*a.CRF))
	}
	if a.Preset != "" {
		tokens = append(tokens, "-preset:"+out, a.Preset)
	}
	if a.Disposition != "" {
		tokens = append(tokens, "-disposition:"+out, a.Disposition)
	}
	return tokens
}

// BuildStreamArgs assigns output indices by position in plan. Two entries may
// share an input index; each still gets its own output index.
func BuildStreamArgs(plan []policy.OutputStream) []StreamArgs {
	args := make([]StreamArgs, 0, len(plan))
	for position, entry := range plan {
		record := StreamArgs{
			OutputIndex: position,
			InputIndex:  entry.InputIndex,
			Codec:       "copy",
		}
		switch entry.Action {
		case policy.ActionTranscode:
			record.Codec = entry.Codec
			if entry.Encoder != nil {
				crf := entry.Encoder.CRF
				record.CRF = &crf
				record.Preset = entry.Encoder.Preset
			}
		case policy.ActionConvertSubtitle:
			record.Codec = entry.Codec
		}
		switch entry.Default {
		case policy.DefaultSet:
			record.Disposition = "+default"
		case policy.DefaultClear:
			record.Disposition = "-default"
		}
		args = append(args, record)
	}
	return args
}

// Compile flattens a plan into the ffmpeg tokens placed between the input and
// the output arguments.
func Compile(plan []policy.OutputStream) []string {
	var tokens []string
	for _, record := range BuildStreamArgs(plan) {
		tokens = append(tokens, record.Tokens()...)
	}
	return tokens
}
