// Package workflow drives a recode-video run over the paths given on the
// command line.
//
// The Runner takes the run lock, checks that ffmpeg and ffprobe resolve,
// collects every candidate file up front, then processes candidates one at a
// time: probe, evaluate the stream policy, and either skip the file, log the
// plan (dry run), or compile the plan and hand it to the encoder. Each file
// ends with a Result and the run ends with a Summary the CLI renders.
//
// Per-file failures are isolated by default. Rejections (layouts the policy
// refuses) and failures (probe, ffmpeg or filesystem errors) are recorded and
// the run moves on unless run.continue_on_error is false. Cancelling the
// context stops the loop between files.
package workflow
