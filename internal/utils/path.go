package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDirName = "ngserve"

// PathResolver locates the config file and corpus relative to the
// executable, the working directory and the user's config dir.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(filepath.Dir(execPath), homeDir, configDirFor(homeDir))
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

func newPathResolver(execDir, homeDir, configDir string) *PathResolver {
	return &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     configDir,
	}
}

// configDirFor returns the platform config directory for ngserve.
func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	default:
		return filepath.Join(homeDir, ".config", appDirName)
	}
}

// GetCorpusPath resolves a corpus file path. Candidates, in order:
//  1. the path itself (absolute, or relative to the working directory)
//  2. relative to the executable directory
//  3. relative to the config directory
//
// The first existing regular file wins. When none exists the path is returned
// unchanged so the loader reports the original name.
func (pr *PathResolver) GetCorpusPath(userPath string) string {
	if userPath == "" {
		return ""
	}
	candidates := []string{userPath}
	if !filepath.IsAbs(userPath) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userPath),
			filepath.Join(pr.configDir, userPath),
		)
	}
	for _, path := range candidates {
		if IsRegularFile(path) {
			log.Debugf("Found corpus file: %s", path)
			return path
		}
		log.Debugf("Corpus candidate not found: %s", path)
	}
	return userPath
}

// GetConfigPath returns the full path for a config file, falling back to
// other writable locations when the config dir cannot be used.
func (pr *PathResolver) GetConfigPath(filename string) string {
	if IsWritableDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename)
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+appDirName),
		filepath.Join(os.TempDir(), appDirName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if IsWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath
}
