package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fileflow/fileflow/internal/fileproc"
)

// scanDirectoryForInputFiles scans a directory for files whose extension
// resolves to a supported format. Results are sorted so batch ordering is
// deterministic.
func scanDirectoryForInputFiles(dirPath string, recursive bool, logger *slog.Logger) ([]string, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %s: %w", dirPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	logger.Debug("Scanning directory.", "path", dirPath, "recursive", recursive)

	var files []string
	if recursive {
		err = filepath.WalkDir(dirPath, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Skipping unreadable entry.", "path", path, "error", err)
				return nil
			}
			if !entry.IsDir() && isSupportedInput(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error scanning directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isSupportedInput(entry.Name()) {
				files = append(files, filepath.Join(dirPath, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	logger.Debug("Directory scan complete.", "path", dirPath, "files", len(files))

	return files, nil
}

// isSupportedInput reports whether the path's extension maps to a processor.
// Directory scans ignore override tables: overrides exist for explicitly
// listed files, not for sweeping unknown extensions into a batch.
func isSupportedInput(path string) bool {
	_, err := fileproc.ResolveFormat(path, nil)
	return err == nil
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
