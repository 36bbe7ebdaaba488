package encoding

import "context"

// SetCommandRunnerForTests overrides how ffmpeg is executed during tests. The
// runner returns captured stderr and the process error.
func SetCommandRunnerForTests(fn func(ctx context.Context, name string, args ...string) (string, error)) func() {
	previous := runCommand
	runCommand = fn
	return func() {
		runCommand = previous
	}
}
