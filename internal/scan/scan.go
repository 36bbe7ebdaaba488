package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"recodevideo/internal/services"
)

// Options controls candidate selection.
type Options struct {
	// Extensions are matched case-sensitively, including the leading dot.
	Extensions []string
	// IgnoredDirs are directory names that exclude every path beneath them.
	IgnoredDirs []string
}

// DefaultExtensions lists the containers considered for rewriting.
func DefaultExtensions() []string {
	return []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v"}
}

// DefaultIgnoredDirs lists NAS metadata and Plex optimized-version directories.
func DefaultIgnoredDirs() []string {
	return []string{"@eaDir", "Plex Versions"}
}

// DefaultOptions returns the stock extension and ignore lists.
func DefaultOptions() Options {
	return Options{Extensions: DefaultExtensions(), IgnoredDirs: DefaultIgnoredDirs()}
}

// Discover returns the absolute paths of every candidate under roots. Each
// root's candidates are sorted; roots keep their command line order and a
// file reachable from several roots is listed once. A root that does not
// exist is an error.
func Discover(roots []string, opts Options) ([]string, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions()
	}
	if opts.IgnoredDirs == nil {
		opts.IgnoredDirs = DefaultIgnoredDirs()
	}

	seen := make(map[string]struct{})
	var files []string
	for _, root := range roots {
		found, err := discoverRoot(root, opts)
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		for _, path := range found {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}
	return files, nil
}

func discoverRoot(root string, opts Options) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "resolve root", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "scan", "stat root", fmt.Sprintf("path %q does not exist", root), err)
	}
	if !info.IsDir() {
		if opts.matches(abs) {
			return []string{abs}, nil
		}
		return nil, nil
	}
	if opts.ignored(abs) {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if slices.Contains(opts.IgnoredDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || target.IsDir() {
				return nil
			}
		}
		if opts.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "scan", "walk directory", root, err)
	}
	return files, nil
}

// Match reports whether path is a candidate file name under opts. It does not
// touch the filesystem.
func Match(path string, opts Options) bool {
	return opts.matches(path)
}

func (o Options) matches(path string) bool {
	if o.ignored(path) {
		return false
	}
	return slices.Contains(o.Extensions, extension(path))
}

// ignored reports whether any component of path is an ignored directory name.
func (o Options) ignored(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if slices.Contains(o.IgnoredDirs, part) {
			return true
		}
	}
	return false
}

// extension mirrors filepath.Ext but treats a leading dot as part of the name,
// so ".mp4" has no extension.
func extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}
