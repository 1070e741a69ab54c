package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "GOLRU"
	DefaultFile = "golru.toml"
)

// Report formats understood by the replay command.
const (
	FormatText = "text"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

type Config struct {
	// DefaultCapacity is used by scenarios that do not set their own.
	DefaultCapacity int    `mapstructure:"default_capacity"`
	Debug           bool   `mapstructure:"debug"`
	ReportFormat    string `mapstructure:"report_format"`
	// Parallelism bounds how many scenario files replay at once.
	Parallelism int `mapstructure:"parallelism"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_capacity", 2)
	v.SetDefault("debug", false)
	v.SetDefault("report_format", FormatText)
	v.SetDefault("parallelism", 4)
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from configPath, or from ./golru.toml when
// configPath is empty. A missing default file is not an error; defaults and
// GOLRU_* environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %s: %w", configPath, err)
		}
		v.SetConfigFile(absPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DefaultCapacity <= 0 {
		return fmt.Errorf("default_capacity must be positive, got %d", c.DefaultCapacity)
	}
	switch c.ReportFormat {
	case FormatText, FormatTOML, FormatYAML:
	default:
		return fmt.Errorf("unknown report_format %q", c.ReportFormat)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	return nil
}
