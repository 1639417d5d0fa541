package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// EndpointsConfig holds all named daemon endpoints and tracks which one is
// active.
type EndpointsConfig struct {
	Active    string              `toml:"active"`
	Endpoints map[string]Endpoint `toml:"endpoints"`
}

// Endpoint is a named daemon profile.
type Endpoint struct {
	URL string `toml:"url"`
}

func endpointConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "warden")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "endpoints.toml"), nil
}

func loadEndpointsConfig() (EndpointsConfig, error) {
	path, err := endpointConfigPath()
	if err != nil {
		return EndpointsConfig{}, err
	}
	var cfg EndpointsConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return EndpointsConfig{Endpoints: map[string]Endpoint{}}, nil
		}
		return EndpointsConfig{}, err
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = map[string]Endpoint{}
	}
	return cfg, nil
}

func saveEndpointsConfig(cfg EndpointsConfig) error {
	path, err := endpointConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Cached active endpoint URL, loaded once per process.
var (
	endpointOnce      sync.Once
	cachedEndpointURL string
)

func activeEndpointURL() string {
	endpointOnce.Do(func() {
		cfg, err := loadEndpointsConfig()
		if err != nil || cfg.Active == "" {
			return
		}
		ep, ok := cfg.Endpoints[cfg.Active]
		if !ok {
			return
		}
		cachedEndpointURL = ep.URL
	})
	return cachedEndpointURL
}
