// Package config handles XDG configuration directory and file paths.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "todoist"

	// ClientCredentialsFile holds the OAuth client id/secret.
	// It is gitignored and never leaves the local machine.
	ClientCredentialsFile = "client_credentials.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// ClientCredentials is the content of client_credentials.json.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoist or $HOME/.config/todoist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ClientCredentialsPath returns the path to client_credentials.json.
func (c *Config) ClientCredentialsPath() string {
	return filepath.Join(c.Dir, ClientCredentialsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasClientCredentials checks if client_credentials.json exists.
func (c *Config) HasClientCredentials() bool {
	_, err := os.Stat(c.ClientCredentialsPath())
	return err == nil
}

// LoadClientCredentials reads and validates client_credentials.json.
func (c *Config) LoadClientCredentials() (ClientCredentials, error) {
	data, err := os.ReadFile(c.ClientCredentialsPath())
	if err != nil {
		return ClientCredentials{}, fmt.Errorf("failed to read %s: %w", ClientCredentialsFile, err)
	}
	var creds ClientCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return ClientCredentials{}, fmt.Errorf("invalid %s: %w", ClientCredentialsFile, err)
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return ClientCredentials{}, errors.New("client_credentials.json is missing client_id or client_secret")
	}
	return creds, nil
}
