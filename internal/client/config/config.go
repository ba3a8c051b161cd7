// Package config holds client settings: defaults, an optional JSON file and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
)

// Config holds runtime settings for the gophid CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - RequestTimeout: deadline applied to every call.
//   - TokenFile: where the last issued access token is kept between runs.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	TokenFile          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.TokenFile = defaultTokenFile()
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".gophid", "token")
	}
	return filepath.Join(dir, "gophid", "token")
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// flags. Arguments that are not client flags are ignored here.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	if cfg.ServerEndpointAddr == "" {
		return nil, fmt.Errorf("%w: server address is empty", common.ErrConfiguration)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", common.ErrConfiguration)
	}
	return cfg, nil
}
