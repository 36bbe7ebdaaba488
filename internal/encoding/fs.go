package encoding

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"recodevideo/internal/services"
)

// OutputPath returns the Matroska path a source is rewritten to: the same
// directory and stem with a ".mkv" extension.
func OutputPath(source string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	if ext == base {
		// A bare dotfile such as ".mp4" has no extension to replace.
		ext = ""
	}
	return strings.TrimSuffix(source, ext) + ".mkv"
}

// verifyOutput checks that ffmpeg left a non-empty file at path.
func verifyOutput(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "transform", "verify output", "ffmpeg produced no output file", err)
	}
	if info.Size() == 0 {
		return 0, services.Wrap(services.ErrExternalTool, "transform", "verify output", fmt.Sprintf("ffmpeg produced an empty file at %s", path), nil)
	}
	return info.Size(), nil
}

// removeSource deletes the original once the replacement exists. It is a
// no-op when the source was rewritten in place.
func removeSource(source, output string) (bool, error) {
	if filepath.Clean(source) == filepath.Clean(output) {
		return false, nil
	}
	if _, err := os.Stat(output); err != nil {
		return false, services.Wrap(services.ErrTransient, "transform", "finalize output", "replacement missing, keeping original", err)
	}
	if err := os.Remove(source); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, services.Wrap(services.ErrTransient, "transform", "remove original", "failed to delete original after replacement", err)
	}
	return true, nil
}
