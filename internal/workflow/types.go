package workflow

import (
	"time"

	"recodevideo/internal/policy"
	"recodevideo/internal/services"
)

// Outcome is the per-file result recorded in the run summary.
type Outcome string

const (
	OutcomeTransformed Outcome = "transformed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomePlanned     Outcome = "planned"
	OutcomeRejected    Outcome = Outcome(services.OutcomeRejected)
	OutcomeFailed      Outcome = Outcome(services.OutcomeFailed)
)

// Result describes what happened to one candidate file.
type Result struct {
	Path    string
	Outcome Outcome
	// Output is the path the file was, or would be, written to.
	Output  string
	Streams []policy.Stream
	Plan    []policy.OutputStream
	// Command is the full ffmpeg argv for planned and transformed files.
	Command       []string
	Bytes         int64
	SourceRemoved bool
	Elapsed       time.Duration
	Err           error
}

// Summary aggregates a run.
type Summary struct {
	RunID    string
	DryRun   bool
	Results  []Result
	Started  time.Time
	Duration time.Duration
}

// Count returns how many files ended with outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// HasErrors reports whether any file was rejected or failed.
func (s Summary) HasErrors() bool {
	return s.Count(OutcomeRejected) > 0 || s.Count(OutcomeFailed) > 0
}

// Changed reports whether any file was transformed or planned, or ended in
// error. A run that only skipped files has nothing worth tabulating.
func (s Summary) Changed() bool {
	for _, r := range s.Results {
		if r.Outcome != OutcomeSkipped {
			return true
		}
	}
	return false
}
