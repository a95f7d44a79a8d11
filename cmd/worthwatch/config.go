package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	DataDir   string   `json:"data_dir" toml:"data_dir" yaml:"data_dir"`
	UserAgent string   `json:"user_agent" toml:"user_agent" yaml:"user_agent"`
	Timeout   int      `json:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
	Endpoints []string `json:"endpoints" toml:"endpoints" yaml:"endpoints"`
}

// resolveConfig layers configuration sources; later sources win:
// built-in defaults, then the config file, then WORTHWATCH_* environment
// variables, then explicitly set flags.
func resolveConfig(path string, flags Config) (Config, error) {
	cfg := Config{DataDir: "data", Timeout: 30}
	if path != "" {
		file, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		merge(&cfg, file)
	}
	env := Config{
		DataDir:   os.Getenv("WORTHWATCH_DATA_DIR"),
		UserAgent: os.Getenv("WORTHWATCH_USER_AGENT"),
	}
	if s := os.Getenv("WORTHWATCH_TIMEOUT"); s != "" {
		t, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORTHWATCH_TIMEOUT %q", s)
		}
		env.Timeout = t
	}
	merge(&cfg, env)
	merge(&cfg, flags)
	return cfg, nil
}

// loadConfigFile unmarshals by extension: .toml, .yaml/.yml, else JSON.
func loadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func merge(dst *Config, src Config) {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if len(src.Endpoints) > 0 {
		dst.Endpoints = src.Endpoints
	}
}
