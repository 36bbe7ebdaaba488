package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Outcome classifies how a per-file failure is reported in the run summary.
type Outcome string

const (
	// OutcomeRejected marks files the policy refused to handle (unsupported
	// stream layouts, missing video). Re-running will not change the result.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed marks files whose probe, transcode or replacement failed.
	OutcomeFailed Outcome = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later outcome classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureOutcome maps a per-file error to the outcome recorded in the run
// summary.
func FailureOutcome(err error) Outcome {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
