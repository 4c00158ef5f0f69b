package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config captures the runtime settings for the reward service.
type Config struct {
	ServiceName     string `toml:"ServiceName"`
	Environment     string `toml:"Environment"`
	ConfigStorePath string `toml:"ConfigStorePath"`
	LedgerDSN       string `toml:"LedgerDSN"`
	SeedFile        string `toml:"SeedFile,omitempty"`
	MetricsAddress  string `toml:"MetricsAddress"`
}

func defaultConfig() *Config {
	return &Config{
		ServiceName:     "rewardd",
		Environment:     "dev",
		ConfigStorePath: "./data/referral-config.db",
		LedgerDSN:       "./data/referral-ledger.db",
		MetricsAddress:  ":9464",
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyFallbacks(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if strings.TrimSpace(c.ConfigStorePath) == "" {
		return fmt.Errorf("ConfigStorePath is required")
	}
	if strings.TrimSpace(c.LedgerDSN) == "" {
		return fmt.Errorf("LedgerDSN is required")
	}
	return nil
}

func applyFallbacks(cfg *Config) {
	def := defaultConfig()
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = def.ServiceName
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = def.Environment
	}
	if strings.TrimSpace(cfg.MetricsAddress) == "" {
		cfg.MetricsAddress = def.MetricsAddress
	}
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return cfg, nil
}
