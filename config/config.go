package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the full application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig configures the Models API connection
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Key     string `mapstructure:"key"`
	Timeout int    `mapstructure:"timeout"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// Load loads the configuration from file and environment. The config file
// is optional unless an explicit path is given; LUKRUM_MODELS_* environment
// variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Environment variable names match the original deployment surface
	v.BindEnv("api.key", "LUKRUM_MODELS_API_KEY")
	v.BindEnv("api.base_url", "LUKRUM_MODELS_BASE_URL")
	v.BindEnv("api.timeout", "LUKRUM_MODELS_TIMEOUT")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fxmodels"))
		}
		v.AddConfigPath("/etc/fxmodels/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Missing config file is fine when no explicit path was given;
		// defaults plus environment variables are enough to run.
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://162.19.66.207:5001")
	v.SetDefault("api.timeout", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.API.Key == "" {
		return fmt.Errorf("api.key must be set (or export LUKRUM_MODELS_API_KEY)")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %d", cfg.API.Timeout)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
