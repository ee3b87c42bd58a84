// Package deps reports the availability of the external tools the pipeline
// shells out to. Status output and daemon startup both consume it so the two
// never disagree about what is installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"shortform/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
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
	Detail      string
}

// For builds the requirement list for a configuration. Optional entries
// reflect config state: WhisperX is only listed as required when
// transcription is enabled, and a custom render command is checked only
// when one is configured.
func For(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "Piper", Command: binaryOrDefault(cfg.TTS.PiperBinary, "piper"), Description: "Text-to-speech synthesis"},
		{Name: "FFmpeg", Command: binaryOrDefault(cfg.Tools.FFmpegBinary, "ffmpeg"), Description: "Audio concatenation, muxing, and fallback rendering"},
		{Name: "FFprobe", Command: binaryOrDefault(cfg.Tools.FFprobeBinary, "ffprobe"), Description: "Audio duration measurement"},
	}
	reqs = append(reqs, Requirement{
		Name:        "WhisperX",
		Command:     binaryOrDefault(cfg.Tools.UVXBinary, "uvx"),
		Description: "Word-level timing alignment",
		Optional:    !cfg.Transcription.Enabled,
	})
	if command := firstField(cfg.Render.Command); command != "" {
		reqs = append(reqs, Requirement{
			Name:        "Renderer",
			Command:     command,
			Description: "External silent-video renderer",
		})
	}
	return reqs
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
		status.Command = resolved
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the subset of statuses that are required but
// unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}

func binaryOrDefault(configured, fallback string) string {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed
	}
	return fallback
}

func firstField(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
