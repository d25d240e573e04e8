package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into the provided struct.
// Keys the struct does not know about are reported at debug level.
func LoadTOMLFile(configPath string, config any) error {
	meta, err := toml.DecodeFile(configPath, config)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	for _, key := range meta.Undecoded() {
		log.Debugf("Ignoring unknown config key %q in %s", key.String(), configPath)
	}
	return nil
}

// ParseTOMLWithRecovery parses a TOML file into a generic map
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	tempConfig := make(map[string]any)
	if _, err := toml.Decode(string(data), &tempConfig); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return tempConfig, nil
}

// ExtractSection extracts a specific section from parsed TOML data
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt64 safely extracts an integer value from a map
func ExtractInt64(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractFloat extracts a float, accepting integer literals too.
func ExtractFloat(data map[string]any, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// ExtractString safely extracts a string value from a map
func ExtractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
