// Package transcribe wraps WhisperX to recover word-level timestamps from
// synthesized narration audio.
package transcribe
