package utils

import (
	"os"
	"path/filepath"
)

// EnsureExportDir creates the exports directory if it doesn't exist
func EnsureExportDir() error {
	return os.MkdirAll("exports", os.ModePerm)
}

// SaveBytes writes data to the given destination path
func SaveBytes(data []byte, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

// GetExportPath returns the full path for a file inside the exports directory
func GetExportPath(filename string) string {
	return filepath.Join("exports", filename)
}
