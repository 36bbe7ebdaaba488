package encoding_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"recodevideo/internal/encoding"
	"recodevideo/internal/logging"
	"recodevideo/internal/services"
	"recodevideo/internal/testsupport"
)

var sampleTokens = []string{"-map", "0:0", "-c:0", "copy"}

func writeSource(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("original"), mode); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod source: %v", err)
	}
	return path
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestTransformReplacesSourceWithMatroska(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", testsupport.FFmpegWritesOutput)
	dir := t.TempDir()
	source := writeSource(t, dir, "movie.mp4", 0o640)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logging.NewNop())
	result, err := enc.Transform(context.Background(), source, sampleTokens)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	output := filepath.Join(dir, "movie.mkv")
	if result.Output != output || !result.SourceRemoved || result.Bytes != int64(len("recoded")) {
		t.Fatalf("unexpected result %+v", result)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "recoded" {
		t.Fatalf("unexpected output content %q", data)
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected source permissions 0640, got %v", info.Mode().Perm())
	}
	if diff := cmp.Diff([]string{"movie.mkv"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("unexpected directory contents (-want +got):\n%s", diff)
	}
}

func TestTransformInPlaceKeepsSingleFile(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", testsupport.FFmpegWritesOutput)
	dir := t.TempDir()
	source := writeSource(t, dir, "episode.mkv", 0o644)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logging.NewNop())
	result, err := enc.Transform(context.Background(), source, sampleTokens)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if result.SourceRemoved {
		t.Fatal("in-place rewrite must not report the source as removed")
	}
	data, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "recoded" {
		t.Fatalf("expected replaced content, got %q", data)
	}
	if diff := cmp.Diff([]string{"episode.mkv"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("unexpected directory contents (-want +got):\n%s", diff)
	}
}

func TestTransformWarnsBeforeReplacingExistingOutput(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", testsupport.FFmpegWritesOutput)

	tests := []struct {
		name     string
		source   string
		existing bool
		wantWarn bool
	}{
		{name: "sibling matroska exists", source: "movie.mp4", existing: true, wantWarn: true},
		{name: "no sibling", source: "movie.mp4"},
		{name: "in place", source: "movie.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			source := writeSource(t, dir, tt.source, 0o644)
			output := filepath.Join(dir, "movie.mkv")
			if tt.existing {
				if err := os.WriteFile(output, []byte("unrelated"), 0o644); err != nil {
					t.Fatalf("write existing output: %v", err)
				}
			}

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logger)
			if _, err := enc.Transform(context.Background(), source, sampleTokens); err != nil {
				t.Fatalf("Transform: %v", err)
			}

			logs := buf.String()
			warned := strings.Contains(logs, `"event_type":"output_overwrite"`)
			if warned != tt.wantWarn {
				t.Fatalf("overwrite warning = %v, want %v; logs:\n%s", warned, tt.wantWarn, logs)
			}
			if tt.wantWarn && !strings.Contains(logs, `"impact":`) {
				t.Fatalf("overwrite warning should carry an impact field; logs:\n%s", logs)
			}
			if data, err := os.ReadFile(output); err != nil || string(data) != "recoded" {
				t.Fatalf("output = %q, err=%v", data, err)
			}
		})
	}
}

func TestTransformFailureLeavesOriginal(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", "echo 'Unknown encoder' >&2\nexit 1\n")
	dir := t.TempDir()
	source := writeSource(t, dir, "clip.webm", 0o644)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logging.NewNop())
	_, err := enc.Transform(context.Background(), source, sampleTokens)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "Unknown encoder") {
		t.Fatalf("expected ffmpeg stderr in error, got %v", err)
	}
	data, readErr := os.ReadFile(source)
	if readErr != nil || string(data) != "original" {
		t.Fatalf("original not preserved: %q %v", data, readErr)
	}
	if diff := cmp.Diff([]string{"clip.webm"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("temporary files left behind (-want +got):\n%s", diff)
	}
}

func TestTransformRejectsEmptyOutput(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", "for last; do :; done\n: > \"$last\"\n")
	dir := t.TempDir()
	source := writeSource(t, dir, "clip.avi", 0o644)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logging.NewNop())
	_, err := enc.Transform(context.Background(), source, sampleTokens)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if diff := cmp.Diff([]string{"clip.avi"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("unexpected directory contents (-want +got):\n%s", diff)
	}
}

func TestTransformThroughTempDir(t *testing.T) {
	ffmpeg := testsupport.StubBinary(t, "ffmpeg", testsupport.FFmpegWritesOutput)
	dir := t.TempDir()
	scratch := filepath.Join(t.TempDir(), "scratch")
	source := writeSource(t, dir, "show.m4v", 0o644)

	var seenTarget string
	restore := encoding.SetCommandRunnerForTests(func(ctx context.Context, name string, args ...string) (string, error) {
		seenTarget = args[len(args)-1]
		return "", os.WriteFile(seenTarget, []byte("recoded"), 0o644)
	})
	t.Cleanup(restore)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg, TempDir: scratch}, logging.NewNop())
	if _, err := enc.Transform(context.Background(), source, sampleTokens); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if filepath.Dir(seenTarget) != scratch || !strings.HasPrefix(filepath.Base(seenTarget), "recode-") || filepath.Ext(seenTarget) != ".mkv" {
		t.Fatalf("expected ffmpeg to write into temp dir, got %q", seenTarget)
	}
	if names := dirNames(t, scratch); len(names) != 0 {
		t.Fatalf("temp dir not cleaned: %v", names)
	}
	data, err := os.ReadFile(filepath.Join(dir, "show.mkv"))
	if err != nil || string(data) != "recoded" {
		t.Fatalf("unexpected output %q %v", data, err)
	}
	if _, err := os.Stat(source); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected source removed, got %v", err)
	}
}

func TestTransformCommandLine(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a.mov", 0o644)

	var argv []string
	restore := encoding.SetCommandRunnerForTests(func(ctx context.Context, name string, args ...string) (string, error) {
		argv = append([]string{name}, args...)
		return "", os.WriteFile(args[len(args)-1], []byte("recoded"), 0o644)
	})
	t.Cleanup(restore)

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: "/opt/ffmpeg", Threads: 4}, logging.NewNop())
	if _, err := enc.Transform(context.Background(), source, sampleTokens); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []string{"/opt/ffmpeg", "-hide_banner", "-nostdin", "-threads", "4", "-y", "-i", source, "-map", "0:0", "-c:0", "copy", "-f", "matroska"}
	if len(argv) != len(want)+1 {
		t.Fatalf("unexpected argv %v", argv)
	}
	if diff := cmp.Diff(want, argv[:len(want)]); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}
	if filepath.Dir(argv[len(argv)-1]) != dir {
		t.Fatalf("expected pending output next to target, got %q", argv[len(argv)-1])
	}
}

func TestTransformCancelledContext(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a.flv", 0o644)
	ctx, cancel := context.WithCancel(context.Background())

	restore := encoding.SetCommandRunnerForTests(func(ctx context.Context, name string, args ...string) (string, error) {
		cancel()
		return "", errors.New("signal: killed")
	})
	t.Cleanup(restore)

	enc := encoding.NewEncoder(encoding.Options{}, logging.NewNop())
	_, err := enc.Transform(ctx, source, sampleTokens)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if diff := cmp.Diff([]string{"a.flv"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("unexpected directory contents (-want +got):\n%s", diff)
	}
}

func TestTransformMissingSource(t *testing.T) {
	enc := encoding.NewEncoder(encoding.Options{}, logging.NewNop())
	_, err := enc.Transform(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), sampleTokens)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"/media/a.mp4":      "/media/a.mkv",
		"/media/a.b.webm":   "/media/a.b.mkv",
		"/media/a.mkv":      "/media/a.mkv",
		"/media/noext":      "/media/noext.mkv",
		"/media/.mp4":       "/media/.mp4.mkv",
		"relative/clip.MOV": "relative/clip.mkv",
	}
	for in, want := range tests {
		if got := encoding.OutputPath(in); got != want {
			t.Fatalf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommand(t *testing.T) {
	enc := encoding.NewEncoder(encoding.Options{}, nil)
	got := enc.Command("in.mp4", []string{"-map", "0:0"}, "out.mkv")
	want := []string{"ffmpeg", "-hide_banner", "-nostdin", "-threads", "16", "-y", "-i", "in.mp4", "-map", "0:0", "-f", "matroska", "out.mkv"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformKillsFFmpegOnDeadline(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ffmpeg := testsupport.StubBinary(t, "ffmpeg", "exec sleep 30\n")
	dir := t.TempDir()
	source := writeSource(t, dir, "slow.mp4", 0o644)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	enc := encoding.NewEncoder(encoding.Options{FFmpegBinary: ffmpeg}, logging.NewNop())
	start := time.Now()
	_, err := enc.Transform(ctx, source, sampleTokens)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("ffmpeg was not killed promptly (%s)", elapsed)
	}
	if diff := cmp.Diff([]string{"slow.mp4"}, dirNames(t, dir)); diff != "" {
		t.Fatalf("directory mismatch (-want +got):\n%s", diff)
	}
}
