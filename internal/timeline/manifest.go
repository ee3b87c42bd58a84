package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the canonical filename for a job's timing manifest.
const ManifestName = "timing_manifest.json"

// SaveManifest writes the timeline as the canonical JSON timing manifest.
// The write is atomic (temp file + rename) so a crash mid-write never leaves
// a truncated manifest behind.
func (t *Timeline) SaveManifest(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure manifest dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a timing manifest back into a timeline and re-derives
// the frame indices that are never serialized.
func LoadManifest(path string, frameRate int) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var t Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for _, segment := range t.Segments {
		for i := range segment.Words {
			segment.Words[i].DeriveFrames(frameRate)
		}
	}
	return &t, nil
}
