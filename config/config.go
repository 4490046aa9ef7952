package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"luminashare/crypto"

	"github.com/BurntSushi/toml"
)

type Config struct {
	RPCAddress   string `toml:"RPCAddress"`
	DataDir      string `toml:"DataDir"`
	NetworkName  string `toml:"NetworkName"`
	Environment  string `toml:"Environment"`
	ScopeAddress string `toml:"ScopeAddress"`
	RPCJWTSecret string `toml:"RPCJWTSecret"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = "127.0.0.1:8645"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "lumina-local"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "dev"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./lumina-data"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.ScopeAddress) == "" {
		return fmt.Errorf("config: ScopeAddress is required")
	}
	if _, err := crypto.DecodeAddress(cfg.ScopeAddress); err != nil {
		return fmt.Errorf("config: invalid ScopeAddress: %w", err)
	}
	return nil
}

// createDefault creates and saves a default configuration file. The scope
// address — the identity handles are bound to — is derived from a freshly
// generated key so every deployment gets a distinct scope.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		ScopeAddress: key.PubKey().Address().String(),
	}
	applyDefaults(cfg)
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
