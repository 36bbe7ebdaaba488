package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recodevideo/internal/config"
	"recodevideo/internal/media/ffprobe"
	"recodevideo/internal/testsupport"
	"recodevideo/internal/workflow"
)

// writeConfig points RECODE_VIDEO_CONFIG at a config using stub tools and a
// temp log directory, and returns the log directory.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	base := t.TempDir()
	logDir := filepath.Join(base, "logs")
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", testsupport.FFmpegWritesOutput)
	ffprobe := testsupport.StubBinary(t, "ffprobe", "exit 0\n")
	content := fmt.Sprintf(`[paths]
log_dir = %q

[tools]
ffmpeg = %q
ffprobe = %q

[logging]
level = "error"
%s`, logDir, ffmpeg, ffprobe, extra)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)
	return logDir
}

func probeFixture(t *testing.T, table map[string][]ffprobe.Stream) workflow.Option {
	t.Helper()
	return workflow.WithProbe(func(_ context.Context, _ string, path string) (ffprobe.Result, error) {
		streams, ok := table[filepath.Base(path)]
		if !ok {
			return ffprobe.Result{}, errors.New("unexpected probe of " + path)
		}
		return ffprobe.Result{Streams: streams}, nil
	})
}

func execute(t *testing.T, args []string, opts ...workflow.Option) (string, error) {
	t.Helper()
	cmd := newRootCommand(opts...)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var (
	hevcStreams = []ffprobe.Stream{
		{CodecType: "video", CodecName: "hevc", Disposition: ffprobe.Disposition{Default: 1}},
		{CodecType: "audio", CodecName: "aac", Tags: ffprobe.Tags{Language: "jpn"}},
		{CodecType: "subtitle", CodecName: "mov_text", Tags: ffprobe.Tags{Language: "eng"}},
	}
	compliantStreams = []ffprobe.Stream{
		{CodecType: "video", CodecName: "h264"},
		{CodecType: "audio", CodecName: "aac"},
	}
)

func TestRootCommandRequiresPath(t *testing.T) {
	if _, err := execute(t, nil); err == nil {
		t.Fatal("expected error without paths")
	}
}

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		out, err := execute(t, []string{flag})
		if err != nil {
			t.Fatalf("%s: %v", flag, err)
		}
		if out != "recode-video dev\n" {
			t.Fatalf("%s output = %q", flag, out)
		}
	}
}

func TestRunTransformsAndPrintsSummary(t *testing.T) {
	logDir := writeConfig(t, "")
	media := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(media, "show.mp4"), 32)
	testsupport.WriteFile(t, filepath.Join(media, "done.mkv"), 32)

	out, err := execute(t, []string{media}, probeFixture(t, map[string][]ffprobe.Stream{
		"show.mp4": hevcStreams,
		"done.mkv": compliantStreams,
	}))
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	for _, want := range []string{"transformed", "source removed", "1 transformed, 1 skipped, 0 rejected, 0 failed", "[OK]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "done.mkv") {
		t.Fatalf("skipped files should not be tabulated:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(media, "show.mkv")); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	logs, err := filepath.Glob(filepath.Join(logDir, "recode-video-*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one run log, got %v (err=%v)", logs, err)
	}
}

func TestRunDryRunPrintsPlan(t *testing.T) {
	writeConfig(t, "\n[run]\ndry_run = true\n")
	media := t.TempDir()
	source := filepath.Join(media, "show.mp4")
	testsupport.WriteFile(t, source, 32)

	out, err := execute(t, []string{source}, probeFixture(t, map[string][]ffprobe.Stream{"show.mp4": hevcStreams}))
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	for _, want := range []string{"planned", "Japanese", "English", "convert-subtitle -> srt", "-f matroska", "[INFO]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("dry run must keep the source: %v", err)
	}
}

func TestRunExitsNonZeroWhenFilesRejected(t *testing.T) {
	writeConfig(t, "")
	media := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(media, "audio.mkv"), 8)

	out, err := execute(t, []string{media}, probeFixture(t, map[string][]ffprobe.Stream{
		"audio.mkv": {{CodecType: "audio", CodecName: "flac"}},
	}))
	if !errors.Is(err, errFilesNotProcessed) {
		t.Fatalf("expected errFilesNotProcessed, got %v", err)
	}
	if !strings.Contains(out, "rejected") || !strings.Contains(out, "[WARN]") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRunReportsStartupFailure(t *testing.T) {
	writeConfig(t, "")
	_, err := execute(t, []string{filepath.Join(t.TempDir(), "missing")})
	if err == nil || errors.Is(err, errFilesNotProcessed) {
		t.Fatalf("expected startup error, got %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	writeConfig(t, "\n[video]\ncrf = 99\n")
	_, err := execute(t, []string{t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected config error, got %v", err)
	}
}
