// Package policy decides, per media file, whether the file must be rewritten
// into the target container and how every stream is carried across.
//
// The package is pure: it never touches the filesystem or runs external
// tools. Evaluate folds a per-stream classifier over the probed streams in
// input order and returns a Verdict holding the transform decision and the
// ordered output plan. Each stream type has its own small classifier that
// returns a Decision (zero or more plan entries plus a force flag), so each
// rule can be tested in isolation.
//
// Subtitles carry the most special cases: obsolete or non-portable text
// formats are converted, the original track is kept next to a converted copy,
// and exactly the intended track ends up flagged as default. The rules are
// evaluated in a fixed precedence order over the sorted multiset of subtitle
// codecs in the file.
package policy
