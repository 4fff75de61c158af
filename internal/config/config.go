package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"urlrota.yml",
	"urlrota.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "URLROTA_CONFIG"

// EnvPrefix is stripped from environment variables before they are mapped to
// config keys. A double underscore separates sections:
// URLROTA_PACING__MIN_SECONDS -> pacing.min_seconds.
const EnvPrefix = "URLROTA_"

type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Pacing   PacingConfig   `koanf:"pacing"`
	VPN      VPNConfig      `koanf:"vpn"`
	Server   ServerConfig   `koanf:"server"`
	Defaults DefaultsConfig `koanf:"defaults"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}

// PacingConfig bounds the random pause between two browser launches.
type PacingConfig struct {
	MinSeconds int `koanf:"min_seconds" validate:"gte=0,lte=86400"`
	MaxSeconds int `koanf:"max_seconds" validate:"gtefield=MinSeconds,lte=86400"`
}

type VPNConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Binary         string        `koanf:"binary" validate:"required_if=Enabled true"`
	Retries        int           `koanf:"retries" validate:"gte=0,lte=20"`
	RetryDelay     time.Duration `koanf:"retry_delay" validate:"gte=0"`
	CommandTimeout time.Duration `koanf:"command_timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"gt=0,lte=65535"`
}

// DefaultsConfig holds the values the open command falls back to when the
// matching flag is not given.
type DefaultsConfig struct {
	Count   int    `koanf:"count" validate:"gt=0"`
	Order   string `koanf:"order" validate:"oneof=id sampled newest oldest"`
	Browser string `koanf:"browser"`
	Domain  string `koanf:"domain"`
}

// Default returns a Config with every default applied. Load layers the config
// file and environment on top of it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "urlrota.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Pacing: PacingConfig{
			MinSeconds: 20,
			MaxSeconds: 60,
		},
		VPN: VPNConfig{
			Enabled:        true,
			Binary:         "nordvpn",
			Retries:        5,
			RetryDelay:     2 * time.Second,
			CommandTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Defaults: DefaultsConfig{
			Count: 20,
			Order: "id",
		},
	}
}

// Load builds the configuration from defaults, then the config file (path, or
// the first of DefaultConfigPaths when path is empty), then URLROTA_* env vars.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every section against its validate tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// findConfigFile returns the explicit path when given (it must exist), then
// the env override, then the first default path present. An empty result
// means no file: defaults and env only.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "CONFIG" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}
