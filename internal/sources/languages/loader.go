// Package languages loads the language catalog from an optional
// languages.yaml and merges it over the built-in defaults.
package languages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of languages.yaml.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the languages file.
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read languages file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse languages yaml: %w", err)
	}
	return config, nil
}
