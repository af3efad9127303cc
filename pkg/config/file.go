package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type fileFormat string

const (
	formatJSON fileFormat = "json"
	formatYAML fileFormat = "yaml"
	formatTOML fileFormat = "toml"
)

// parseFile decodes a config file into dst, auto-detecting JSON, YAML or
// TOML from the extension and falling back to content sniffing.
func parseFile(filename string, dst *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	format, err := detectFormat(filename, data)
	if err != nil {
		return err
	}

	switch format {
	case formatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true) // Strict mode: reject unknown fields
		if err := decoder.Decode(dst); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case formatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields() // Strict mode: reject unknown fields
		if err := decoder.Decode(dst); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return nil
}

func detectFormat(filename string, data []byte) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	case ".json":
		return formatJSON, nil
	}

	content := bytes.TrimSpace(data)
	if len(content) == 0 {
		return "", fmt.Errorf("empty config file")
	}
	if content[0] == '{' {
		return formatJSON, nil
	}
	if content[0] == '[' {
		// bare [section] opener; a JSON array is not a valid config here
		return formatTOML, nil
	}
	return formatYAML, nil
}
