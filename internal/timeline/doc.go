// Package timeline holds the data model shared by every pipeline stage: the
// script, the progressively enriched audio segments, word-level timings, and
// the JSON timing manifest that is the job's canonical intermediate state.
//
// Invariants enforced by Validate:
//   - segments are contiguous and non-overlapping; segment 0 starts at 0
//   - word timings are monotonically increasing and clipped to their segment
//   - the final word of a segment ends exactly at the segment boundary
package timeline
