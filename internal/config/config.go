// Package config holds the client configuration. The defaults are embedded in
// the binary; Load accepts any document with the same layout.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultDocument []byte

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Socket  SocketConfig  `yaml:"socket"`
	Router  RouterConfig  `yaml:"router"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig locates the REST API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ResourcesURL is where uploaded files are served from.
func (c APIConfig) ResourcesURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/resources"
}

// SocketConfig locates the chat socket endpoint.
type SocketConfig struct {
	BaseURL      string        `yaml:"base_url"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

// RouterConfig holds the root container and the authentication guard.
type RouterConfig struct {
	Root      string   `yaml:"root"`
	LoginPath string   `yaml:"login_path"`
	HomePath  string   `yaml:"home_path"`
	Protected []string `yaml:"protected"`
	GuestOnly []string `yaml:"guest_only"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Load(defaultDocument)
}

// Load decodes data, fills unset optional settings and validates the result.
// Unknown keys are rejected.
func Load(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Timeout <= 0 {
		c.API.Timeout = 5 * time.Second
	}
	if c.Socket.PingInterval <= 0 {
		c.Socket.PingInterval = 15 * time.Second
	}
	if c.Router.Root == "" {
		c.Router.Root = "#app"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"api.base_url", c.API.BaseURL},
		{"socket.base_url", c.Socket.BaseURL},
		{"router.login_path", c.Router.LoginPath},
		{"router.home_path", c.Router.HomePath},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
