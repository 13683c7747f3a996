package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type KVStoreConfig struct {
	Type    string `yaml:"type"`
	Address string `yaml:"address"`
}

type OCRConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

type OptimizerConfig struct {
	MaxWidth     int     `yaml:"maxWidth"`
	MaxHeight    int     `yaml:"maxHeight"`
	Quality      float64 `yaml:"quality"`
	TargetSizeKB int     `yaml:"targetSizeKB"`
}

type ExportConfig struct {
	Directory string `yaml:"directory"`
}

type ServiceConfig struct {
	Port      int             `yaml:"port"`
	Database  DatabaseConfig  `yaml:"database"`
	KVStore   KVStoreConfig   `yaml:"kvstore"`
	OCR       OCRConfig       `yaml:"ocr"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Export    ExportConfig    `yaml:"export"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig ensures required fields are present and applies defaults
// for the optional ones.
func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}
	if config.Database.Type == "" {
		return fmt.Errorf("database type must be set")
	}
	if config.KVStore.Type == "" {
		return fmt.Errorf("kvstore type must be set")
	}
	if config.KVStore.Type == "redis" && config.KVStore.Address == "" {
		return fmt.Errorf("kvstore address must be set for redis")
	}
	if config.OCR.Endpoint == "" {
		return fmt.Errorf("ocr endpoint must be set")
	}

	if config.Export.Directory == "" {
		config.Export.Directory = "exports"
	}

	return nil
}
