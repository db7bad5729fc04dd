// Package config loads the layered CLI configuration: built-in defaults, the
// strategy-ai.yaml file, a .env file, STRATEGY_AI_* environment variables and
// finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/helmcode/strategy-ai/pkg/client"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STRATEGY_AI_API_BASE_URL.
	EnvPrefix = "STRATEGY_AI"
	fileName  = "strategy-ai"
)

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Phase1Path string        `mapstructure:"phase1_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives the log output instead of stderr. Required for logs from
	// the interactive screen.
	File string `mapstructure:"file"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"api-url":    "api.base_url",
	"timeout":    "api.timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"output":     "output.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.phase1_path", client.DefaultPhase1Path)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("output.format", "human")
}

// Load builds the configuration. configFile may be empty, in which case
// strategy-ai.yaml is searched for in ./, ./configs and
// $HOME/.config/strategy-ai; a missing file is not an error. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory when present. Variables
// already set in the environment win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// applyDefaults fills values an explicit empty string in the file or
// environment would otherwise blank out.
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = client.DefaultBaseURL
	}
	if cfg.API.Phase1Path == "" {
		cfg.API.Phase1Path = client.DefaultPhase1Path
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "human"
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http or https URL, got %q", cfg.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", cfg.API.BaseURL)
	}
	if !strings.HasPrefix(cfg.API.Phase1Path, "/") {
		return fmt.Errorf("api.phase1_path must start with /, got %q", cfg.API.Phase1Path)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format)
	}
	switch cfg.Output.Format {
	case "human", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be human, json or yaml, got %q", cfg.Output.Format)
	}
	return nil
}
