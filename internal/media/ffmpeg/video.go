package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
)

// NormalizeSpec describes how to conform a downloaded clip to the target frame.
type NormalizeSpec struct {
	Source    string
	Dest      string
	Width     int
	Height    int
	Seconds   float64
	FrameRate int
}

// Normalize re-encodes a clip to the vertical target frame, cropping to fill
// and trimming to its intended on-screen window.
func (r *Runner) Normalize(ctx context.Context, spec NormalizeSpec) error {
	if spec.Source == "" || spec.Dest == "" {
		return fmt.Errorf("normalize: source and dest required")
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("normalize: non-positive duration %v", spec.Seconds)
	}
	return r.run(ctx, normalizeArgs(spec)...)
}

func normalizeArgs(spec NormalizeSpec) []string {
	w := strconv.Itoa(spec.Width)
	h := strconv.Itoa(spec.Height)
	filter := "scale=" + w + ":" + h + ":force_original_aspect_ratio=increase," +
		"crop=" + w + ":" + h + ",fps=" + strconv.Itoa(spec.FrameRate)
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", spec.Source,
		"-t", formatSeconds(spec.Seconds),
		"-vf", filter,
		"-an",
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		spec.Dest,
	}
}

// GeneratedStyle selects a procedural background generator.
type GeneratedStyle string

const (
	// StyleDark renders a near-black clip with a vignette; used for fear,
	// dread, and horror-adjacent scripts.
	StyleDark GeneratedStyle = "dark"
	// StyleGrid renders a slow animated test grid; used for science and
	// technology scripts.
	StyleGrid GeneratedStyle = "grid"
	// StyleGradient renders drifting color gradients; the neutral default.
	StyleGradient GeneratedStyle = "gradient"
	// StyleNoise renders dim animated film grain; used for tense or
	// mystery-flavored scripts.
	StyleNoise GeneratedStyle = "noise"
)

// GenerateSpec describes a procedurally generated filler clip.
type GenerateSpec struct {
	Dest      string
	Style     GeneratedStyle
	Width     int
	Height    int
	Seconds   float64
	FrameRate int
}

// Generate synthesizes an abstract filler clip entirely from lavfi sources,
// so deficiency fallback has no external dependency.
func (r *Runner) Generate(ctx context.Context, spec GenerateSpec) error {
	if spec.Dest == "" {
		return fmt.Errorf("generate: dest required")
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("generate: non-positive duration %v", spec.Seconds)
	}
	return r.run(ctx, generateArgs(spec)...)
}

func generateArgs(spec GenerateSpec) []string {
	size := strconv.Itoa(spec.Width) + "x" + strconv.Itoa(spec.Height)
	rate := strconv.Itoa(spec.FrameRate)

	var source, filter string
	switch spec.Style {
	case StyleDark:
		source = "color=c=0x0b0b14:s=" + size + ":r=" + rate
		filter = "vignette=PI/3"
	case StyleGrid:
		source = "testsrc2=s=" + size + ":r=" + rate
		filter = "hue=s=0.35,eq=brightness=-0.25"
	case StyleNoise:
		source = "color=c=0x101010:s=" + size + ":r=" + rate
		filter = "noise=alls=18:allf=t"
	default:
		source = "gradients=s=" + size + ":speed=0.05"
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi",
		"-i", source,
		"-t", formatSeconds(spec.Seconds),
	}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-r", rate,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		spec.Dest,
	)
	return args
}

// TitleCardSpec describes the minimal fallback render.
type TitleCardSpec struct {
	Dest      string
	Title     string
	Width     int
	Height    int
	Seconds   float64
	FrameRate int
}

// TitleCard renders a static title over a dark background sized to the total
// duration. Substituted when the external renderer fails.
func (r *Runner) TitleCard(ctx context.Context, spec TitleCardSpec) error {
	if spec.Dest == "" {
		return fmt.Errorf("title card: dest required")
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("title card: non-positive duration %v", spec.Seconds)
	}
	return r.run(ctx, titleCardArgs(spec)...)
}

func titleCardArgs(spec TitleCardSpec) []string {
	size := strconv.Itoa(spec.Width) + "x" + strconv.Itoa(spec.Height)
	drawtext := "drawtext=text='" + escapeDrawtext(spec.Title) + "':" +
		"fontcolor=white:fontsize=64:x=(w-text_w)/2:y=(h-text_h)/2"
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi",
		"-i", "color=c=0x141414:s=" + size + ":r=" + strconv.Itoa(spec.FrameRate),
		"-t", formatSeconds(spec.Seconds),
		"-vf", drawtext,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		spec.Dest,
	}
}

func escapeDrawtext(text string) string {
	escaped := make([]rune, 0, len(text))
	for _, r := range text {
		switch r {
		case '\'', ':', '\\', '%':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return string(escaped)
}
