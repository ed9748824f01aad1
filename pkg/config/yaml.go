package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML configuration. Fields missing from the document keep their default
// values; unknown fields are rejected.
func Parse(data []byte) (Preprocessor, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Preprocessor{}, fmt.Errorf("error decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Preprocessor{}, err
	}
	return cfg, nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Preprocessor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preprocessor{}, fmt.Errorf("error reading configuration file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Preprocessor{}, fmt.Errorf("error loading configuration from %s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func Encode(cfg Preprocessor, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	return encoder.Close()
}

// Save writes cfg to a YAML file.
func Save(cfg Preprocessor, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating configuration file %s: %w", path, err)
	}
	defer f.Close()
	return Encode(cfg, f)
}

// EncodeSearchSpace writes SearchSpace as YAML with its keys in sorted order.
func EncodeSearchSpace(writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(SearchSpace()); err != nil {
		return fmt.Errorf("error encoding search space: %w", err)
	}
	return encoder.Close()
}
