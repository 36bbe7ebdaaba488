// Package scan expands command line roots into the ordered list of media files
// to process. Directory roots are walked recursively, ignored directories are
// pruned, and only files with a known container extension are returned.
package scan
