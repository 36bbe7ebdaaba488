package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutput verifies that source is readable and that the directory the
// output lands in accepts new files. Replacing the output and removing the
// source both need write access to that directory.
func CheckOutput(source, output string) Result {
	const name = "Output directory"

	if err := unix.Access(source, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: source not readable: %v)", source, err)}
	}
	return CheckDirectoryAccess(name, filepath.Dir(output))
}
