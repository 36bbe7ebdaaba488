package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"recodevideo/internal/language"
	"recodevideo/internal/logging"
	"recodevideo/internal/policy"
	"recodevideo/internal/workflow"
)

// renderSummary prints the per-file table, a plan table per planned file on
// dry runs, and the closing status line.
func renderSummary(w io.Writer, summary workflow.Summary, logPath string, colorize bool) {
	if len(summary.Results) == 0 {
		return
	}

	if summary.Changed() {
		fmt.Fprintln(w, renderTable("", []string{"File", "Outcome", "Detail"}, resultRows(summary.Results), nil))
	}
	if summary.DryRun {
		for _, result := range summary.Results {
			if result.Outcome != workflow.OutcomePlanned {
				continue
			}
			fmt.Fprintln(w, renderTable(result.Path, planHeaders, planRows(result), planAligns))
			fmt.Fprintln(w, "  "+strings.Join(result.Command, " "))
		}
	}

	kind := statusOK
	switch {
	case summary.Count(workflow.OutcomeFailed) > 0:
		kind = statusError
	case summary.Count(workflow.OutcomeRejected) > 0:
		kind = statusWarn
	case summary.DryRun:
		kind = statusInfo
	}
	fmt.Fprintln(w, renderStatusLine("Summary", kind, countsLine(summary), colorize))
	if logPath != "" {
		fmt.Fprintln(w, renderStatusLine("Log", statusInfo, logPath, colorize))
	}
}

func countsLine(summary workflow.Summary) string {
	parts := []string{
		fmt.Sprintf("%d transformed", summary.Count(workflow.OutcomeTransformed)),
		fmt.Sprintf("%d skipped", summary.Count(workflow.OutcomeSkipped)),
	}
	if summary.DryRun {
		parts = append(parts, fmt.Sprintf("%d planned", summary.Count(workflow.OutcomePlanned)))
	}
	parts = append(parts,
		fmt.Sprintf("%d rejected", summary.Count(workflow.OutcomeRejected)),
		fmt.Sprintf("%d failed", summary.Count(workflow.OutcomeFailed)),
	)
	return strings.Join(parts, ", ") + " in " + summary.Duration.Round(time.Second).String()
}

func resultRows(results []workflow.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Outcome == workflow.OutcomeSkipped {
			continue
		}
		rows = append(rows, []string{r.Path, string(r.Outcome), resultDetail(r)})
	}
	return rows
}

func resultDetail(r workflow.Result) string {
	switch r.Outcome {
	case workflow.OutcomeTransformed:
		detail := fmt.Sprintf("%s (%s)", r.Output, logging.FormatBytes(r.Bytes))
		if r.SourceRemoved {
			detail += ", source removed"
		}
		return detail
	case workflow.OutcomePlanned:
		return fmt.Sprintf("%s (%d streams)", r.Output, len(r.Plan))
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return ""
	}
}

var (
	planHeaders = []string{"Out", "In", "Type", "Codec", "Language", "Action", "Default"}
	planAligns  = []columnAlignment{alignRight, alignRight}
)

func planRows(r workflow.Result) [][]string {
	byIndex := make(map[int]policy.Stream, len(r.Streams))
	for _, s := range r.Streams {
		byIndex[s.InputIndex] = s
	}
	rows := make([][]string, 0, len(r.Plan))
	for out, entry := range r.Plan {
		src := byIndex[entry.InputIndex]
		action := entry.Action.String()
		if entry.Codec != "" {
			action += " -> " + entry.Codec
		}
		if entry.Encoder != nil {
			action += fmt.Sprintf(" (crf %d, %s)", entry.Encoder.CRF, entry.Encoder.Preset)
		}
		lang := ""
		if src.Language != "" {
			lang = language.DisplayName(src.Language)
		}
		rows = append(rows, []string{
			strconv.Itoa(out),
			strconv.Itoa(entry.InputIndex),
			src.CodecType,
			src.CodecName,
			lang,
			action,
			entry.Default.String(),
		})
	}
	return rows
}
