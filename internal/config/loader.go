package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/lathist/pkg/jsonschema"
)

var fileSchema = jsonschema.MustCompile("lathist-config.json", documentSchema)

// LoadConfig loads a configuration file on top of Default().
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data. Unknown keys and values of the
// wrong type are rejected before decoding.
func ParseConfig(data []byte, path string) (*Config, error) {
	var doc interface{}
	isJSON := strings.ToLower(filepath.Ext(path)) == ".json"
	if isJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	// An empty file decodes to nil and is a valid, empty configuration.
	if doc != nil {
		if errs := fileSchema.ValidateValue(doc); len(errs) > 0 {
			return nil, fmt.Errorf("invalid config %s: %w", path, errs)
		}
	}

	config := Default()
	if isJSON {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return config, nil
}
