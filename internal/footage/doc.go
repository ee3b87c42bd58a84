// Package footage assembles the visual cover for a timeline: concept-derived
// provider queries with bounded concurrency, per-clip normalization to the
// vertical target frame, and procedurally generated filler whenever real
// footage falls short of the required clip count.
package footage
