package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophid/internal/flagx"
)

var serverFlags = []string{"-a", "-w", "-S", "-d", "-s", "-i", "-t", "-H", "-b", "-l"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-w string   HTTP bind address (empty disables HTTP)
//	-S string   storage driver: postgres | sqlite
//	-d string   database DSN
//	-s string   token HMAC secret
//	-i string   token issuer
//	-t int      token validity, minutes
//	-H string   password hash algorithm: bcrypt | argon2id
//	-b int      bcrypt cost
//	-l string   log level
//
// Other arguments (including -c/-config) are filtered out before parsing.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address")
	fs.StringVar(&config.StorageDriver, "S", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	ttlMinutes := fs.Int("t", 0, "access token validity (in minutes)")
	fs.StringVar(&config.HashAlgorithm, "H", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// -t overrides only when present on the command line.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttlMinutes) * time.Minute
		}
	})
	return nil
}
