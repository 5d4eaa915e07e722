package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Hevy      HevyConfig      `yaml:"hevy"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Cache     CacheConfig     `yaml:"cache"`
}

type HevyConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type CacheConfig struct {
	Path        string `yaml:"path"`
	MaxAgeHours int    `yaml:"max_age_hours"`
}

const defaultBaseURL = "https://api.hevyapp.com"

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPSCOPE_ and underscore-separated
// paths:
//
//	REPSCOPE_HEVY_BASE_URL, REPSCOPE_HEVY_API_KEY,
//	REPSCOPE_SERVER_HOST, REPSCOPE_SERVER_PORT, REPSCOPE_SERVER_API_KEY,
//	REPSCOPE_CACHE_PATH, REPSCOPE_CACHE_MAX_AGE_HOURS
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPSCOPE_HEVY_BASE_URL"); v != "" {
		cfg.Hevy.BaseURL = v
	}
	if v := os.Getenv("REPSCOPE_HEVY_API_KEY"); v != "" {
		cfg.Hevy.APIKey = v
	}
	if v := os.Getenv("REPSCOPE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPSCOPE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPSCOPE_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("REPSCOPE_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("REPSCOPE_CACHE_MAX_AGE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxAgeHours = hours
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Hevy.BaseURL == "" {
		cfg.Hevy.BaseURL = defaultBaseURL
	}
	if cfg.Cache.MaxAgeHours == 0 {
		cfg.Cache.MaxAgeHours = 24
	}
}

func (c *Config) validate() error {
	if c.Hevy.APIKey == "" {
		return fmt.Errorf("hevy.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
