// Package deps reports whether the external binaries recode-video shells out
// to can be resolved before any file is touched.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the run relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// ToolRequirements lists the binaries a transform run needs.
func ToolRequirements(ffmpeg, ffprobe string) []Requirement {
	return []Requirement{
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Required for stream inspection",
		},
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required for transcoding and remuxing",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, status)
	}
	return missing
}

// Describe renders missing dependencies as a single line suitable for an
// error message.
func Describe(missing []Status) string {
	parts := make([]string, 0, len(missing))
	for _, status := range missing {
		parts = append(parts, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	return strings.Join(parts, ", ")
}
