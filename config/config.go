package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Token  string       `koanf:"token"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Spaces SpacesConfig `koanf:"spaces"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	Origin         string        `koanf:"origin"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Dir         string `koanf:"dir"`
	ArchiveCron string `koanf:"archive_cron"`
}

type SpacesConfig struct {
	Key      string `koanf:"key"`
	Secret   string `koanf:"secret"`
	Endpoint string `koanf:"endpoint"`
	Region   string `koanf:"region"`
	Bucket   string `koanf:"bucket"`
}

// envKeys maps the environment variables the service reads onto config keys.
var envKeys = map[string]string{
	"BOT_TOKEN":       "token",
	"PORT":            "server.port",
	"CORS_ORIGIN":     "server.origin",
	"REQUEST_TIMEOUT": "server.request_timeout",
	"LOG_LEVEL":       "log.level",
	"LOG_DIR":         "log.dir",
	"ARCHIVE_CRON":    "log.archive_cron",
	"SPACES_KEY":      "spaces.key",
	"SPACES_SECRET":   "spaces.secret",
	"SPACES_ENDPOINT": "spaces.endpoint",
	"SPACES_REGION":   "spaces.region",
	"SPACES_BUCKET":   "spaces.bucket",
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5000,
			Origin:         "https://bot-dashboard-frontend.onrender.com",
			RequestTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:       "info",
			Dir:         "logs",
			ArchiveCron: "@daily",
		},
		Spaces: SpacesConfig{
			Endpoint: "https://fra1.digitaloceanspaces.com",
			Region:   "fra1",
		},
	}
}

// Load layers the YAML file at path (skipped when it does not exist) and then the
// environment over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[strings.ToUpper(s)]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("bot token is required (BOT_TOKEN)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.Origin == "" {
		return errors.New("cors origin is required (CORS_ORIGIN)")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout %s", c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
