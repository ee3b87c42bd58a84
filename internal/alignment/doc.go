// Package alignment produces word-level timings for narration segments.
// Transcription gives the most accurate timings; when it fails or disagrees
// with the script, a syllable-and-length weighted heuristic apportions the
// measured audio duration, and a uniform split backstops both.
package alignment
