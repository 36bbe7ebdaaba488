// Package main hosts the recode-video command.
//
// recode-video takes one or more files or directories, finds the video files
// under them, and rewrites each one whose streams do not already fit the
// Matroska target: incompatible video is re-encoded, text subtitles are
// converted, and default flags are fixed. Files that already comply are left
// alone. Configuration comes from RECODE_VIDEO_CONFIG,
// ~/.config/recode-video/config.toml or ./recode-video.toml.
//
// The heavy lifting lives in internal/workflow; this package wires config and
// logging, runs the batch, and renders the summary.
package main
