/*
Package config manages the TOML config for ngserve.

A config file looks like:

	[corpus]
	path_to_corpus = "corpus.txt"
	highest_n = 3

	[engine]
	max_scan_attempts = 100
	scan_step = 1
	bloom_fp_rate = 0.01

	[server]
	max_limit = 64
	http_addr = ""

	[cli]
	default_limit = 24
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bastiangx/ngserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the name of the config file inside the config dir.
const FileName = "ngserve.toml"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the entire config structure
type Config struct {
	Corpus CorpusConfig `toml:"corpus"`
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// CorpusConfig points at the training text and the largest model order.
type CorpusConfig struct {
	Path     string `toml:"path_to_corpus"`
	HighestN int    `toml:"highest_n"`
}

// EngineConfig tunes context extraction and the model filters.
type EngineConfig struct {
	MaxScanAttempts int     `toml:"max_scan_attempts"`
	ScanStep        int     `toml:"scan_step"`
	BloomFPRate     float64 `toml:"bloom_fp_rate"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int    `toml:"max_limit"`
	HTTPAddr string `toml:"http_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with default values.
// The corpus path is empty and has to be set before the config validates.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path:     "",
			HighestN: 3,
		},
		Engine: EngineConfig{
			MaxScanAttempts: 100,
			ScanStep:        1,
			BloomFPRate:     0.01,
		},
		Server: ServerConfig{
			MaxLimit: 64,
			HTTPAddr: "",
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// Validate reports every out of range value at once.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Corpus.Path) == "" {
		problems = append(problems, "corpus.path_to_corpus is empty")
	}
	if c.Corpus.HighestN < 1 {
		problems = append(problems, fmt.Sprintf("corpus.highest_n must be >= 1, got %d", c.Corpus.HighestN))
	}
	if c.Engine.MaxScanAttempts < 1 {
		problems = append(problems, fmt.Sprintf("engine.max_scan_attempts must be >= 1, got %d", c.Engine.MaxScanAttempts))
	}
	if c.Engine.ScanStep < 1 {
		problems = append(problems, fmt.Sprintf("engine.scan_step must be >= 1, got %d", c.Engine.ScanStep))
	}
	if c.Engine.BloomFPRate <= 0 || c.Engine.BloomFPRate >= 1 {
		problems = append(problems, fmt.Sprintf("engine.bloom_fp_rate must be in (0, 1), got %g", c.Engine.BloomFPRate))
	}
	if c.Server.MaxLimit < 1 {
		problems = append(problems, fmt.Sprintf("server.max_limit must be >= 1, got %d", c.Server.MaxLimit))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// GetDefaultConfigPath returns the default path for ngserve.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/ngserve/ngserve.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep
// their defaults. A file that does not decode cleanly is parsed again
// section by section, keeping every value of the right type.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "path_to_corpus"); ok {
		corpus.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "highest_n"); ok {
		corpus.HighestN = val
	}
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_scan_attempts"); ok {
		engine.MaxScanAttempts = val
	}
	if val, ok := utils.ExtractInt64(data, "scan_step"); ok {
		engine.ScanStep = val
	}
	if val, ok := utils.ExtractFloat(data, "bloom_fp_rate"); ok {
		engine.BloomFPRate = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		server.HTTPAddr = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit *int, httpAddr *string) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if httpAddr != nil {
		server.HTTPAddr = *httpAddr
	}
	return SaveConfig(c, configPath)
}
