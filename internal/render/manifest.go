package render

import (
	"encoding/json"
	"fmt"
	"os"

	"shortform/internal/footage"
	"shortform/internal/timeline"
)

// Manifest is the write-once render input: the full timeline, the scheduled
// footage cover, and the visual style. It is serialized as plain JSON so any
// external renderer can consume it.
type Manifest struct {
	Title         string                   `json:"title"`
	Style         string                   `json:"style"`
	Width         int                      `json:"width"`
	Height        int                      `json:"height"`
	FrameRate     int                      `json:"frameRate"`
	TotalDuration float64                  `json:"totalDuration"`
	Segments      []*timeline.AudioSegment `json:"segments"`
	Footage       []footage.Asset          `json:"footage"`
}

// FrameSpec pins the output raster and rate.
type FrameSpec struct {
	Width     int
	Height    int
	FrameRate int
}

// BuildManifest assembles the render manifest after the audio and footage
// branches have both converged.
func BuildManifest(tl *timeline.Timeline, assets []footage.Asset, style string, frame FrameSpec) *Manifest {
	return &Manifest{
		Title:         tl.Title,
		Style:         style,
		Width:         frame.Width,
		Height:        frame.Height,
		FrameRate:     frame.FrameRate,
		TotalDuration: tl.TotalDuration,
		Segments:      tl.Segments,
		Footage:       assets,
	}
}

// Save writes the manifest atomically.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal render manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write render manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize render manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a previously saved manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read render manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse render manifest: %w", err)
	}
	return &m, nil
}
