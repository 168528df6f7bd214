// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GateConfig struct {
	SeasonPollInterval     time.Duration `yaml:"season_poll_interval"`
	CountryRecheckInterval time.Duration `yaml:"country_recheck_interval"` // 0 disables the re-check worker
	AdInitialDelay         time.Duration `yaml:"ad_initial_delay"`
}

type WebConfig struct {
	Port            int           `yaml:"port"`
	AdminSecret     string        `yaml:"admin_secret"`
	AdminSessionTTL time.Duration `yaml:"admin_session_ttl"`
}

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	Gate    GateConfig    `yaml:"gate"`
	Web     WebConfig     `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Gate.SeasonPollInterval <= 0 {
		cfg.Gate.SeasonPollInterval = 10 * time.Second
	}
	if cfg.Gate.AdInitialDelay <= 0 {
		cfg.Gate.AdInitialDelay = 5 * time.Second
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.AdminSessionTTL <= 0 {
		cfg.Web.AdminSessionTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("backend.base_url is required")
	}
	if cfg.Redis.URL == "" && !dev {
		return nil, errors.New("redis.url is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
