package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// FFmpegWritesOutput is a stub ffmpeg body that writes a small payload to its
// last argument, the output path.
const FFmpegWritesOutput = `for last; do :; done
printf 'recoded' > "$last"
`

// StubBinary writes an executable shell script named name into a per-test bin
// directory and returns its absolute path.
func StubBinary(t testing.TB, name, body string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	script := []byte("#!/bin/sh\n" + body)
	if err := os.WriteFile(target, script, 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
