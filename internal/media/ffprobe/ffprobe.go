package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int         `json:"index"`
	CodecName   string      `json:"codec_name"`
	CodecType   string      `json:"codec_type"`
	CodecTag    string      `json:"codec_tag_string"`
	Duration    string      `json:"duration"`
	BitRate     string      `json:"bit_rate"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	SampleRate  string      `json:"sample_rate"`
	Channels    int         `json:"channels"`
	Disposition Disposition `json:"disposition"`
	Tags        Tags        `json:"tags"`
}

// Disposition carries the per-stream flags ffprobe reports as 0/1 integers.
type Disposition struct {
	Default int `json:"default"`
	Forced  int `json:"forced"`
}

// Tags holds the stream-level metadata tags used for reporting.
type Tags struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

// IsDefault reports whether the stream carries the default disposition.
func (s Stream) IsDefault() bool {
	return s.Disposition.Default == 1
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return Parse(output)
}

// Parse decodes an ffprobe JSON document. A document without a streams array
// is treated as malformed.
func Parse(output []byte) (Result, error) {
	var probe struct {
		Streams *[]Stream `json:"streams"`
		Format  Format    `json:"format"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	if probe.Streams == nil {
		return Result{}, errors.New("ffprobe parse: missing streams array")
	}
	return Result{Streams: *probe.Streams, Format: probe.Format}, nil
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countType("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countType("audio")
}

// SubtitleStreamCount returns the number of subtitle streams discovered.
func (r Result) SubtitleStreamCount() int {
	return r.countType("subtitle")
}

func (r Result) countType(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
