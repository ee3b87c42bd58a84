package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner invokes ffmpeg with a configurable binary. The zero value uses the
// ffmpeg found on PATH.
type Runner struct {
	Binary string

	// commandRunner overrides process execution (for testing).
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewRunner builds a Runner for the given binary.
func NewRunner(binary string) *Runner {
	return &Runner{Binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Runner) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

func (r *Runner) binary() string {
	if b := strings.TrimSpace(r.Binary); b != "" {
		return b
	}
	return "ffmpeg"
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.binary(), args...)
	}
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", r.binary(), err, tailOf(string(output)))
	}
	return nil
}

// tailOf keeps the last few lines of tool output; ffmpeg banners bury the
// actual failure at the bottom.
func tailOf(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 6 {
		lines = lines[len(lines)-6:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
