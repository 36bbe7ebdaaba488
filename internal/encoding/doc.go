// Package encoding turns a policy plan into an ffmpeg invocation and runs it.
//
// Compile renders the plan into per-output-stream argument tokens. The
// Encoder then runs ffmpeg into a uniquely named temporary file and, once the
// output checks out, atomically replaces the Matroska target next to the
// source. The source is only removed after the replacement is on disk, so a
// failed or cancelled transcode always leaves the original untouched.
package encoding
