// Package deps reports availability of the external tools the analysis
// pipeline invokes.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"precheck/internal/config"
)

// Requirement defines an external dependency precheck relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Required returns the binaries an analysis run needs, using the configured
// command names.
func Required(cfg *config.Config) []Requirement {
	ffmpeg := config.Default().Tools.FFmpegBinary
	whisper := config.Default().Tools.WhisperBinary
	if cfg != nil {
		ffmpeg = cfg.Tools.FFmpegBinary
		whisper = cfg.Tools.WhisperBinary
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Extracts the audio track from uploaded videos",
		},
		{
			Name:        "Whisper",
			Command:     whisper,
			Description: "Transcribes and translates extracted audio",
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
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to the unavailable ones.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
