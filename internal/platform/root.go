package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// storeIndicators are the file names that mark a directory as holding a note store.
var storeIndicators = []string{"notes.json", "notes.yaml", "notes.yml", "notes.db", ".vidnote"}

// FindRoot recursively looks upwards for a directory holding a note store.
// Indicators are: notes.json, notes.yaml, notes.yml, notes.db or a .vidnote directory.
// If found, returns the absolute path to that directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range storeIndicators {
			if hasFile(dir, name) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// FindStore returns the first store document inside dir, preferring JSON.
func FindStore(dir string) (string, bool) {
	for _, name := range storeIndicators {
		if name == ".vidnote" {
			continue
		}
		if hasFile(dir, name) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
