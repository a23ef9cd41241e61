package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stem returns the file name of path without its final extension,
// so "reports/jan.2024.csv" becomes "jan.2024".
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// FileExists checks if a regular file or directory exists at path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDirectory creates path and its parents if it doesn't exist
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return err
	}

	slog.Debug("Creating directory", slog.String("path", path))
	return os.MkdirAll(path, 0755)
}
