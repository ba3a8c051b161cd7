package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophid/internal/flagx"
)

// Flags lists the client flags; each takes a value.
var Flags = []string{"-a", "-T", "-f"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the server
//	-T int      request timeout in seconds
//	-f string   token file path
//
// Subcommands and their arguments are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("T", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "token file")

	if err := fs.Parse(flagx.FilterArgs(args, Flags)); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
