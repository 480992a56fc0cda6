package devserver

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the dev server configuration, read from the environment.
type Config struct {
	Addr       string        `env:"DEV_ADDR" envDefault:":8080"`
	Root       string        `env:"DEV_ROOT" envDefault:"web"`
	Upstream   string        `env:"DEV_UPSTREAM"`
	LiveReload bool          `env:"DEV_LIVE_RELOAD" envDefault:"true"`
	Debounce   time.Duration `env:"DEV_RELOAD_DEBOUNCE" envDefault:"150ms"`
	LogLevel   string        `env:"DEV_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads the given .env files, or ./.env when none are given, and
// parses the environment. A missing default .env file is not an error;
// variables already set in the environment win over file values.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrParsingConfig, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Upstream == "" {
		return nil
	}
	u, err := url.Parse(c.Upstream)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidUpstream, c.Upstream)
	}
	return nil
}
