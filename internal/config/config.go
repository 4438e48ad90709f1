package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"prefsim/internal/similarity"
)

const (
	DefaultConfigDir  = ".prefsim"
	DefaultConfigFile = "config.yaml"
)

// Config represents the application configuration
type Config struct {
	Ranking RankingConfig `yaml:"ranking"`
	Dataset DatasetConfig `yaml:"dataset"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// RankingConfig holds the defaults used by top-matches queries
type RankingConfig struct {
	// N: how many matches to return (0 returns none)
	N int `yaml:"n" validate:"gte=0"`

	// Metric: "pearson" or "distance" (aliases accepted)
	Metric string `yaml:"metric" validate:"required,metric"`
}

// DatasetConfig points at the preference table to load
type DatasetConfig struct {
	// Path to a .yaml/.yml/.json file. Empty uses the built-in critics table.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
	// File receives log output; empty means stderr
	File string `yaml:"file"`
}

type UIConfig struct {
	// Theme is a bubbletint tint ID, e.g. "chalk" or "dracula"
	Theme string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Ranking: RankingConfig{
			N:      5,
			Metric: similarity.DefaultName,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "chalk",
		},
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
			_, err := similarity.Canonical(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	return filepath.Join(configDir, DefaultConfigFile), nil
}

// Load loads the configuration from the default path, creating it if missing
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating a default file there
// if none exists
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configPath); err != nil {
			// If save fails, just return default config without error
			// This ensures the app works even if we can't write config
			return cfg, nil
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configPath)
}

// SaveTo saves the configuration to path
func SaveTo(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Namespace())
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "metric":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, strings.Join(similarity.Names(), " "), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// MetricName returns the canonical name of the configured metric
func (c *Config) MetricName() string {
	name, err := similarity.Canonical(c.Ranking.Metric)
	if err != nil {
		return c.Ranking.Metric
	}
	return name
}
