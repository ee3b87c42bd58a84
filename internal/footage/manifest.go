package footage

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveAssets writes the scheduled footage cover atomically so a crashed
// render stage never observes a partial manifest.
func SaveAssets(path string, assets []Asset) error {
	data, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal footage manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write footage manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize footage manifest: %w", err)
	}
	return nil
}

// LoadAssets reads a footage manifest written by SaveAssets.
func LoadAssets(path string) ([]Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read footage manifest: %w", err)
	}
	var assets []Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("parse footage manifest %s: %w", path, err)
	}
	return assets, nil
}
