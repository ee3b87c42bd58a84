// Package staging reclaims disk space from abandoned job work directories.
// The daemon runs both sweeps at startup, before the workflow manager picks
// up any jobs.
package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shortform/internal/logging"
)

// workDirPrefix matches the per-job directories the segmenting stage creates
// under the staging root.
const workDirPrefix = "job-"

// CleanupResult contains the outcome of a cleanup sweep.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanOrphaned removes job work directories that no queue entry references.
// Work directories of live jobs survive daemon restarts, so only directories
// absent from activeWorkDirs are removed.
func CleanOrphaned(stagingDir string, activeWorkDirs map[string]struct{}, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}

	entries, ok := readStagingDir(stagingDir, &result)
	if !ok {
		return result
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workDirPrefix) {
			continue
		}
		dirPath := filepath.Join(stagingDir, entry.Name())
		if _, active := activeWorkDirs[dirPath]; active {
			continue
		}
		removeDir(dirPath, logger, &result)
	}
	return result
}

// CleanStale removes job work directories older than maxAge regardless of
// queue state. Failed jobs keep their intermediates for inspection, but not
// forever.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}

	entries, ok := readStagingDir(stagingDir, &result)
	if !ok {
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workDirPrefix) {
			continue
		}
		dirPath := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if info.ModTime().Before(cutoff) {
			removeDir(dirPath, logger, &result)
		}
	}
	return result
}

func readStagingDir(stagingDir string, result *CleanupResult) ([]os.DirEntry, bool) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, false
	}
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		}
		return nil, false
	}
	return entries, true
}

func removeDir(dirPath string, logger *slog.Logger, result *CleanupResult) {
	if err := os.RemoveAll(dirPath); err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
		if logger != nil {
			logger.Warn("failed to remove staging directory",
				logging.String("path", dirPath),
				logging.Error(err),
				logging.String(logging.FieldEventType, "staging_cleanup_failed"),
			)
		}
		return
	}
	result.Removed = append(result.Removed, dirPath)
	if logger != nil {
		logger.Info("removed staging directory",
			logging.String("path", dirPath),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
}
