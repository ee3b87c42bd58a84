package render

import (
	"context"
	"fmt"
	"log/slog"

	"shortform/internal/logging"
	"shortform/internal/media/ffmpeg"
)

// MuxError is the pipeline's only fatal error class. Both mux strategies
// failed; the rendered video and combined audio are preserved for diagnosis
// and their paths travel with the error.
type MuxError struct {
	VideoPath   string
	AudioPath   string
	CopyErr     error
	ReencodeErr error
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("mux failed for video %s and audio %s: copy: %v; re-encode: %v",
		e.VideoPath, e.AudioPath, e.CopyErr, e.ReencodeErr)
}

func (e *MuxError) Unwrap() error { return e.ReencodeErr }

// Muxer combines the silent video with the narration track.
type Muxer struct {
	ffmpeg *ffmpeg.Runner
	logger *slog.Logger
}

// NewMuxer wires a muxer. Logger may be nil.
func NewMuxer(runner *ffmpeg.Runner, logger *slog.Logger) *Muxer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Muxer{ffmpeg: runner, logger: logger}
}

// CombineAudio losslessly concatenates per-segment audio files, in order,
// into a single narration track.
func (m *Muxer) CombineAudio(ctx context.Context, dest string, inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("combine audio: no inputs")
	}
	return m.ffmpeg.ConcatAudio(ctx, dest, inputs)
}

// Mux writes the final asset. Stream copy is attempted first for speed; on
// failure one re-encode attempt follows. Exhausting both returns a *MuxError
// and leaves every intermediate in place.
func (m *Muxer) Mux(ctx context.Context, videoPath, audioPath, dest string) error {
	copyErr := m.ffmpeg.Mux(ctx, videoPath, audioPath, dest, false)
	if copyErr == nil {
		return nil
	}
	m.logger.Warn("stream-copy mux failed, retrying with re-encode",
		logging.Error(copyErr))

	reencodeErr := m.ffmpeg.Mux(ctx, videoPath, audioPath, dest, true)
	if reencodeErr == nil {
		return nil
	}
	return &MuxError{
		VideoPath:   videoPath,
		AudioPath:   audioPath,
		CopyErr:     copyErr,
		ReencodeErr: reencodeErr,
	}
}
