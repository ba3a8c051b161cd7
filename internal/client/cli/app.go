package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophid/internal/client/client"
	"github.com/dmitrijs2005/gophid/internal/client/config"
	"github.com/dmitrijs2005/gophid/internal/filex"
	"github.com/dmitrijs2005/gophid/internal/flagx"
)

// ErrUsage is returned when no known command was given.
var ErrUsage = errors.New("usage")

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

// NewApp connects to the configured server and restores a previously kept
// token, if any.
func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, apiClient client.Client, in io.Reader, out io.Writer) (*App, error) {
	token, err := filex.ReadTrimmed(c.TokenFile)
	if err != nil {
		return nil, err
	}
	apiClient.SetToken(token)

	return &App{config: c, client: apiClient, reader: bufio.NewReader(in), out: out}, nil
}

func (a *App) Close() error {
	return a.client.Close()
}

// Run executes the command found among args (flags are skipped).
func (a *App) Run(ctx context.Context, args []string) error {
	valued := append([]string{"-c", "-config", "--config"}, config.Flags...)
	pos := flagx.Positional(args, valued)
	if len(pos) == 0 {
		a.help()
		return ErrUsage
	}

	cmd, rest := pos[0], pos[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "create":
		return a.create(ctx, rest)
	case "whoami":
		return a.whoami(ctx)
	case "check":
		return a.check(ctx)
	case "users":
		return a.users(ctx)
	case "logout":
		return a.logout()
	case "help":
		a.help()
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		a.help()
		return ErrUsage
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Available commands: register, login, create, whoami, check, users, logout")
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) saveToken() error {
	return filex.WriteSecret(a.config.TokenFile, []byte(a.client.Token()))
}
