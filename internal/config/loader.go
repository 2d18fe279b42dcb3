package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"partnerplane/pkg/logging"
)

const (
	userConfigDir  = ".config/partnerplane"
	configFileName = "partnerplane.yaml"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// DefaultConfigPath returns the config file looked up when none is given:
// ./partnerplane.yaml if present, else ~/.config/partnerplane/partnerplane.yaml.
func DefaultConfigPath() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	homeDir, err := osUserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(homeDir, userConfigDir, configFileName)
}

// LoadConfig loads the configuration file at path over the defaults. A
// missing file yields the defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found at %s, using defaults", configFileName, path)
			return config, Validate(config, path)
		}
		return Config{}, NewConfigurationError(path, CategoryFile, ErrorTypeIO, err.Error())
	}

	if err := decode(data, &config); err != nil {
		cerr := NewConfigurationError(path, CategoryFile, ErrorTypeParse, err.Error())
		cerr.LineNumber = yamlLine(err)
		return Config{}, cerr
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)

	return config, Validate(config, path)
}

// decode rejects unknown keys so typos do not silently fall back to defaults.
func decode(data []byte, config *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("malformed configuration: %w", err)
	}
	return nil
}

// yamlLine extracts the first line number from a yaml.TypeError, or 0.
func yamlLine(err error) int {
	var te *yaml.TypeError
	if !errors.As(err, &te) || len(te.Errors) == 0 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(te.Errors[0], "line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}
