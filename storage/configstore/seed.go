package configstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spaloyalty/native/referral"
)

// LoadSeed reads a referral configuration document from a YAML file. The
// document is normalized and validated so a malformed seed is rejected before
// it reaches the store.
func LoadSeed(path string) (*referral.Configuration, error) {
	if path == "" {
		return nil, fmt.Errorf("seed path required")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()
	cfg := new(referral.Configuration)
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
