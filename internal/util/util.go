package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DirExists reports whether path names an existing directory. Any stat
// failure (missing path, ENOTDIR parent, permission) counts as "no".
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists reports whether path names an existing regular file. Any stat
// failure counts as "no".
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NonEmptyFile reports whether path exists and holds at least one byte.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

// Stem returns the file name without its directory or extension,
// e.g. /data/probe.fasta -> probe.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
