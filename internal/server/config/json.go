package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophid/internal/flagx"
	"github.com/dmitrijs2005/gophid/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// tell "absent" from zero, so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	StorageDriver               *string         `json:"storage_driver"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	TokenIssuer                 *string         `json:"token_issuer"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	HashAlgorithm               *string         `json:"hash_algorithm"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	Argon2Time                  *uint32         `json:"argon2_time"`
	Argon2Memory                *uint32         `json:"argon2_memory"`
	Argon2Threads               *uint8          `json:"argon2_threads"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config in args.
// Without such a flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.StorageDriver, c.StorageDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.TokenIssuer, c.TokenIssuer)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setIf(&config.HashAlgorithm, c.HashAlgorithm)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.Argon2Time, c.Argon2Time)
	setIf(&config.Argon2Memory, c.Argon2Memory)
	setIf(&config.Argon2Threads, c.Argon2Threads)
	setIf(&config.LogLevel, c.LogLevel)

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
