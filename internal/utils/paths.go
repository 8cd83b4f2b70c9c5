package utils

import "path/filepath"

// ResolvePath resolves path against baseDir unless it is empty or absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
