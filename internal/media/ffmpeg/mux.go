package ffmpeg

import (
	"context"
	"fmt"
)

// Mux combines a silent video stream with an audio track into dest.
// When reencode is false the video stream is copied as-is for speed; the
// re-encode form is the fallback for incompatible containers.
func (r *Runner) Mux(ctx context.Context, videoPath, audioPath, dest string, reencode bool) error {
	if videoPath == "" || audioPath == "" || dest == "" {
		return fmt.Errorf("mux: video, audio, and dest required")
	}
	return r.run(ctx, muxArgs(videoPath, audioPath, dest, reencode)...)
}

func muxArgs(videoPath, audioPath, dest string, reencode bool) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0", "-map", "1:a:0",
	}
	if reencode {
		args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-crf", "23", "-c:a", "aac", "-b:a", "192k")
	} else {
		args = append(args, "-c:v", "copy", "-c:a", "aac", "-b:a", "192k")
	}
	args = append(args, "-shortest", dest)
	return args
}
