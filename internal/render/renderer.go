package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"shortform/internal/logging"
	"shortform/internal/media/ffmpeg"
)

// ProgressFunc receives fractional render progress in [0, 1].
type ProgressFunc func(fraction float64)

// Renderer produces the silent video track. An external renderer command is
// preferred when configured; a static title card rendered by ffmpeg is the
// degraded fallback, so rendering never aborts a job.
type Renderer struct {
	command []string
	ffmpeg  *ffmpeg.Runner
	logger  *slog.Logger

	// runCommand overrides external process execution (for testing). Each
	// stdout line is passed to onLine before the next is read.
	runCommand func(ctx context.Context, onLine func(string), name string, args ...string) error
}

// NewRenderer wires a renderer. command is the external renderer argv and may
// be empty to always use the built-in fallback. Logger may be nil.
func NewRenderer(command []string, runner *ffmpeg.Runner, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		command: command,
		ffmpeg:  runner,
		logger:  logger,
	}
}

// Render renders the manifest at manifestPath to dest. Fractional progress
// lines emitted by the external renderer are forwarded to onProgress; the
// fallback path reports only start and completion.
func (r *Renderer) Render(ctx context.Context, m *Manifest, manifestPath, dest string, onProgress ProgressFunc) error {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	if len(r.command) > 0 {
		err := r.renderExternal(ctx, manifestPath, dest, onProgress)
		if err == nil {
			onProgress(1.0)
			return nil
		}
		r.logger.Warn("external renderer failed, substituting title card",
			logging.String(logging.FieldFallback, "title_card"),
			logging.Error(err))
	}

	if err := r.renderFallback(ctx, m, dest); err != nil {
		return fmt.Errorf("fallback render: %w", err)
	}
	onProgress(1.0)
	return nil
}

// renderExternal invokes the configured renderer with the manifest path and
// destination appended to its argv. The renderer reports progress by writing
// "progress <fraction>" lines to stdout; anything else is ignored.
func (r *Renderer) renderExternal(ctx context.Context, manifestPath, dest string, onProgress ProgressFunc) error {
	name := r.command[0]
	args := append(append([]string{}, r.command[1:]...), manifestPath, dest)

	onLine := func(line string) {
		if fraction, ok := parseProgressLine(line); ok {
			onProgress(fraction)
		}
	}
	run := r.runCommand
	if run == nil {
		run = streamCommand
	}
	if err := run(ctx, onLine, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func parseProgressLine(line string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "progress") {
		return 0, false
	}
	fraction, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || fraction < 0 || fraction > 1 {
		return 0, false
	}
	return fraction, true
}

// streamCommand runs the process and feeds stdout lines through onLine.
func streamCommand(ctx context.Context, onLine func(string), name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		_ = cmd.Wait()
		return fmt.Errorf("read output: %w", err)
	}
	return cmd.Wait()
}

// renderFallback emits a static title card sized to the full duration.
func (r *Renderer) renderFallback(ctx context.Context, m *Manifest, dest string) error {
	return r.ffmpeg.TitleCard(ctx, ffmpeg.TitleCardSpec{
		Dest:      dest,
		Title:     m.Title,
		Width:     m.Width,
		Height:    m.Height,
		Seconds:   m.TotalDuration,
		FrameRate: m.FrameRate,
	})
}
