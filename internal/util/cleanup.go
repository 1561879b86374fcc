package util

import (
	"os"
	"path/filepath"
	"strings"
)

// TempSuffix marks chapter folders that are still being downloaded.
const TempSuffix = "_tmp"

// CleanupTempFolders removes unfinished chapter folders from outputDir and
// returns the removed paths.
func CleanupTempFolders(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), TempSuffix) {
			continue
		}

		full := filepath.Join(outputDir, e.Name())
		if err := os.RemoveAll(full); err != nil {
			return removed, err
		}
		removed = append(removed, full)
	}

	return removed, nil
}

// RemoveIfEmpty deletes dir when nothing was written into it.
func RemoveIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}

	return os.Remove(dir) == nil
}
