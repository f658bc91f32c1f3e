// Package config loads phonond's configuration via viper, following
// the same setDefaults-plus-env-override shape the rest of the pack
// uses for its own config loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mx-silva/phonond/internal/platform"
	"github.com/mx-silva/phonond/internal/sink"
)

// ConfigError marks a malformed configuration, fatal at startup per
// spec.md §7.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SinkConfig is one configured output sink block. OptionsRaw is the
// semicolon-separated k=v blob as written in the config file (spec.md
// §4.5); Load parses it into Options via sink.ParseOptions before the
// config reaches the rest of the daemon.
type SinkConfig struct {
	Name       string            `mapstructure:"name"`
	Plugin     string            `mapstructure:"driver"`
	OptionsRaw string            `mapstructure:"options"`
	Options    map[string]string `mapstructure:"-"`
}

type Config struct {
	Debug bool `mapstructure:"debug"`

	Library struct {
		Root          string `mapstructure:"root"`
		MaxPathLength int    `mapstructure:"max_path_length"`
	} `mapstructure:"library"`

	Network struct {
		TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
		Retries           int     `mapstructure:"retries"`
		UserAgent         string  `mapstructure:"user_agent"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"network"`

	Sinks []SinkConfig `mapstructure:"sinks"`
}

// Load reads configuration from configPath, or from the platform config
// directory / working directory / ./configs if configPath is empty,
// applying defaults for anything unset and PHONOND_-prefixed env
// overrides.
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		configDir, err := platform.GetConfigDir()
		if err != nil {
			return nil, err
		}
		viper.AddConfigPath(configDir)
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PHONOND")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Sinks {
		opts, err := sink.ParseOptions(cfg.Sinks[i].OptionsRaw)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("sinks[%d].options", i), Err: err}
		}
		cfg.Sinks[i].Options = opts
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("debug", false)

	libDir, _ := platform.GetLibraryDir()
	viper.SetDefault("library.root", libDir)
	viper.SetDefault("library.max_path_length", 4096)

	viper.SetDefault("network.timeout_seconds", 30)
	viper.SetDefault("network.retries", 3)
	viper.SetDefault("network.user_agent", "phonond/1.0")
	viper.SetDefault("network.requests_per_second", 20.0)
	viper.SetDefault("network.burst", 5)

	viper.SetDefault("sinks", []map[string]interface{}{
		{"name": "default", "driver": "portaudio", "options": ""},
	})
}

// validate rejects configurations the daemon cannot start with,
// classified as ConfigError per spec.md §7.
func validate(cfg *Config) error {
	if cfg.Library.Root == "" {
		return &ConfigError{Field: "library.root", Err: fmt.Errorf("must not be empty")}
	}
	if cfg.Library.MaxPathLength <= 0 {
		return &ConfigError{Field: "library.max_path_length", Err: fmt.Errorf("must be positive")}
	}
	if len(cfg.Sinks) == 0 {
		return &ConfigError{Field: "sinks", Err: fmt.Errorf("at least one sink must be configured")}
	}
	for _, s := range cfg.Sinks {
		if s.Name == "" {
			return &ConfigError{Field: "sinks[].name", Err: fmt.Errorf("must not be empty")}
		}
		if s.Plugin != "portaudio" && s.Plugin != "pipe" {
			return &ConfigError{Field: "sinks[].driver", Err: fmt.Errorf("unknown driver %q", s.Plugin)}
		}
		if s.Plugin == "pipe" && s.Options["command"] == "" {
			return &ConfigError{Field: "sinks[].options.command", Err: fmt.Errorf("required for the pipe driver")}
		}
	}
	return ensureDirectories(cfg)
}

func ensureDirectories(cfg *Config) error {
	if err := os.MkdirAll(filepath.Clean(cfg.Library.Root), 0o755); err != nil {
		return &ConfigError{Field: "library.root", Err: err}
	}
	return nil
}
