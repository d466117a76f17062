// Package config loads the CLI and relay configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
)

// Config is the on-disk configuration shared by the CLI commands and the
// relay daemon.
type Config struct {
	// ClientID is the Discord application id.
	ClientID discord.Snowflake `yaml:"client_id"`
	// Scopes to request on authorize, in addition to the implicit "rpc".
	Scopes []oauth.Scope `yaml:"scopes,omitempty"`

	// Secret is the application's client secret, for apps that keep it
	// locally. Mutually exclusive with RelayURL.
	Secret string `yaml:"secret,omitempty"`
	// RelayURL points at a relay service that holds the secret.
	RelayURL string `yaml:"relay_url,omitempty"`

	// TokenFile persists the refresh token at the given path. Ignored
	// when Keyring is set.
	TokenFile string `yaml:"token_file,omitempty"`
	// Keyring stores the refresh token in the OS credential store.
	Keyring bool `yaml:"keyring,omitempty"`

	// Relay configures the relay daemon; unused by the client commands.
	Relay RelayConfig `yaml:"relay,omitempty"`
}

// RelayConfig is the server half of the configuration.
type RelayConfig struct {
	Addr          string        `yaml:"addr,omitempty"`
	ClientSecret  string        `yaml:"client_secret,omitempty"`
	AllowedScopes []oauth.Scope `yaml:"allowed_scopes,omitempty"`
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "discordrpc", "config.yaml")
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ClientID == 0 {
		return fmt.Errorf("client_id is required")
	}
	if c.Secret != "" && c.RelayURL != "" {
		return fmt.Errorf("secret and relay_url are mutually exclusive")
	}
	if c.Relay.Addr == "" {
		c.Relay.Addr = ":8000"
	}
	return nil
}
