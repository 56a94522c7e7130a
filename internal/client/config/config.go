package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/flagx"
	"github.com/dmitrijs2005/codehunt/internal/timex"
)

// Config holds runtime settings for the CodeHunt terminal client.
type Config struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
	// DatabasePath is the SQLite file the session is persisted in.
	DatabasePath string `json:"database_path"`
	// OnlineCheckInterval is how often the server is probed for reachability.
	OnlineCheckInterval time.Duration `json:"online_check_interval"`
	// ResetRedirectURL is embedded in password reset emails; the recovery
	// link the user pastes back starts with it.
	ResetRedirectURL string `json:"reset_redirect_url"`
}

func Default() *Config {
	return &Config{
		ServerEndpointAddr:  "127.0.0.1:50051",
		DatabasePath:        "codehunt.db",
		OnlineCheckInterval: 3 * time.Second,
		ResetRedirectURL:    "codehunt://reset-password",
	}
}

// Load resolves the configuration for args (without the program name).
func Load(args []string) (*Config, error) {
	cfg := Default()
	if path := flagx.ConfigPath(args); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	switch {
	case cfg.ServerEndpointAddr == "":
		return nil, errors.New("invalid config: server address is empty")
	case cfg.DatabasePath == "":
		return nil, errors.New("invalid config: database path is empty")
	case cfg.OnlineCheckInterval <= 0:
		return nil, fmt.Errorf("invalid config: online check interval must be positive, got %s", cfg.OnlineCheckInterval)
	}
	return cfg, nil
}

// UnmarshalJSON keeps the current value of every key the document omits.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	aux := struct {
		*plain
		OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.OnlineCheckInterval != nil {
		c.OnlineCheckInterval = aux.OnlineCheckInterval.Duration
	}
	return nil
}
