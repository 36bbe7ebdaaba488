package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recodevideo/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "movie.mp4")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := CheckOutput(source, filepath.Join(dir, "movie.mkv"))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	missing := CheckOutput(filepath.Join(dir, "gone.mp4"), filepath.Join(dir, "gone.mkv"))
	if missing.Passed {
		t.Fatal("expected failure for unreadable source")
	}
	if !strings.Contains(missing.Detail, "source not readable") {
		t.Fatalf("unexpected detail: %s", missing.Detail)
	}
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(&cfg)
	if len(results) != 1 {
		t.Fatalf("expected only the log directory check, got %#v", results)
	}
	if len(Failed(results)) != 0 {
		t.Fatalf("unexpected failure: %#v", results)
	}

	cfg.Paths.TempDir = filepath.Join(t.TempDir(), "missing")
	results = RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected temp dir check, got %#v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Temp directory" {
		t.Fatalf("unexpected failures: %#v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
