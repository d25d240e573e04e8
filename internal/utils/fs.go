package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile saves a struct to a TOML file
func SaveTOMLFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

// IsWritableDir creates dirPath if needed and checks that a file can be written into it.
func IsWritableDir(dirPath string) bool {
	if err := EnsureDir(dirPath); err != nil {
		log.Debugf("Cannot create directory %s: %v", dirPath, err)
		return false
	}
	testFile := filepath.Join(dirPath, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		log.Debugf("Directory %s is not writable: %v", dirPath, err)
		return false
	}
	os.Remove(testFile)
	return true
}
