// Package preflight provides readiness checks for the filesystem paths
// recode-video writes to.
//
// These checks run in two places:
//   - The batch runner calls RunAll once before the first file so a bad log
//     or temp directory fails the run up front.
//   - Before each transform the runner calls CheckOutput so a read-only
//     directory is reported against the file instead of after ffmpeg has
//     spent minutes encoding.
package preflight
