package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// devDirName namespaces sandboxed stores under the system temp dir.
const devDirName = "vidnote-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// "go run" builds into the system temp dir.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	// "go test" binaries end in .test
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStorePath decides where the store directory actually lives.
// When forceTemp is set (dev runs), the directory is re-rooted under the temp dir so a
// developer never overwrites their real notes. Paths already inside the temp dir are trusted.
func ResolveStorePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	cleanUserPath := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	// e.g. created by t.TempDir()
	if rel, err := filepath.Rel(tempRoot, cleanUserPath); err == nil && filepath.IsAbs(cleanUserPath) && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	subName := filepath.Base(cleanUserPath)
	if userPath == "" || subName == "." || subName == string(os.PathSeparator) {
		subName = "default"
	}
	return filepath.Join(tempRoot, devDirName, subName)
}
