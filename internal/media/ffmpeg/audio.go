package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Silence writes a silent WAV file of the given duration to dest. Used as the
// placeholder asset when speech synthesis is exhausted.
func (r *Runner) Silence(ctx context.Context, dest string, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("silence: non-positive duration %v", seconds)
	}
	args := silenceArgs(dest, seconds)
	return r.run(ctx, args...)
}

func silenceArgs(dest string, seconds float64) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi",
		"-i", "anullsrc=r=22050:cl=mono",
		"-t", formatSeconds(seconds),
		dest,
	}
}

// ConcatAudio losslessly concatenates the input audio files into dest using
// the concat demuxer. Inputs must share a codec and sample format, which
// holds for the pipeline's per-segment WAV assets.
func (r *Runner) ConcatAudio(ctx context.Context, dest string, inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat audio: no inputs")
	}

	listPath := filepath.Join(filepath.Dir(dest), "concat_"+filepath.Base(dest)+".txt")
	var list strings.Builder
	for _, input := range inputs {
		list.WriteString("file '")
		list.WriteString(strings.ReplaceAll(input, "'", `'\''`))
		list.WriteString("'\n")
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("concat audio: write list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		dest,
	}
	return r.run(ctx, args...)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}
