package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultSpreadsheet = "calculations.xlsx"

// Config holds spreadsheet defaults loaded from an optional YAML file.
// Flag values take precedence over file values.
type Config struct {
	Spreadsheet string `yaml:"spreadsheet"`
	Sheet       string `yaml:"sheet"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
