package cmd

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the full defaults.yaml structure. All top-level
// sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version  string   `yaml:"version"`
	Defaults Defaults `yaml:"defaults"`
}

// Defaults holds flag values applied when the user does not set them.
type Defaults struct {
	LogLevel string `yaml:"log_level"`
	Duration int    `yaml:"duration"`
}

// loadDefaultsConfig parses a defaults YAML file into a Config struct.
// Uses strict field checking so typos cause errors instead of silently
// dropped settings.
func loadDefaultsConfig(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Failed to read defaults file: %v", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		logrus.Fatalf("Failed to parse defaults YAML: %v", err)
	}
	return cfg
}

// applyDefaults fills unset flags from cfg. Explicit flag values win.
func applyDefaults(cfg Config) {
	if logLevel == "error" && cfg.Defaults.LogLevel != "" {
		logLevel = cfg.Defaults.LogLevel
	}
	if duration == 0 && cfg.Defaults.Duration > 0 {
		duration = cfg.Defaults.Duration
	}
}
