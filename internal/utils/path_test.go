package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetCorpusPath(t *testing.T) {
	execDir, configDir := t.TempDir(), t.TempDir()
	pr := newPathResolver(execDir, t.TempDir(), configDir)

	inExec := filepath.Join(execDir, "exec.txt")
	inConfig := filepath.Join(configDir, "config.txt")
	for _, path := range []string{inExec, inConfig} {
		if err := os.WriteFile(path, []byte("a b c\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{inExec, inExec},
		{"exec.txt", inExec},
		{"config.txt", inConfig},
		{"missing.txt", "missing.txt"},
	}
	for _, tc := range testCases {
		if got := pr.GetCorpusPath(tc.input); got != tc.expected {
			t.Errorf("GetCorpusPath(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "ngserve")
	pr := newPathResolver(t.TempDir(), t.TempDir(), configDir)

	got := pr.GetConfigPath("ngserve.toml")
	if got != filepath.Join(configDir, "ngserve.toml") {
		t.Errorf("Unexpected config path %s", got)
	}
	if !IsWritableDir(configDir) {
		t.Errorf("Expected config dir to be created")
	}
}
