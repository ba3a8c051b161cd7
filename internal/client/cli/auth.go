package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/filex"
)

type credentials struct {
	email    string
	password []byte
	name     string
}

// readCredentials takes the email (and name) from args when given and
// prompts for the rest.
func (a *App) readCredentials(args []string, withName bool) (*credentials, error) {
	c := &credentials{}
	var err error

	if len(args) > 0 {
		c.email = args[0]
	} else if c.email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
		return nil, err
	}

	if withName {
		if len(args) > 1 {
			c.name = args[1]
		} else if c.name, err = GetSimpleText(a.reader, "Enter name (optional)", a.out); err != nil {
			return nil, err
		}
	}

	if c.password, err = GetPassword(a.reader, a.out); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	c, err := a.readCredentials(args, true)
	if err != nil {
		return err
	}
	defer clear(c.password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.Register(ctx, c.email, string(c.password), c.name)
	if err != nil {
		return err
	}
	if err := a.saveToken(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s (id=%s)\n", resp.User.Email, resp.User.ID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	c, err := a.readCredentials(args, false)
	if err != nil {
		return err
	}
	defer clear(c.password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, c.email, string(c.password))
	if err != nil {
		return err
	}
	if err := a.saveToken(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Email)
	return nil
}

func (a *App) create(ctx context.Context, args []string) error {
	c, err := a.readCredentials(args, true)
	if err != nil {
		return err
	}
	defer clear(c.password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.CreateUser(ctx, c.email, string(c.password), c.name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (id=%s)\n", user.Email, user.ID)
	return nil
}

func (a *App) check(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.CheckToken(ctx)
	if err != nil {
		return err
	}
	if err := a.saveToken(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Token renewed for %s\n", resp.User.Email)
	return nil
}

func (a *App) logout() error {
	a.client.SetToken("")
	if err := filex.Remove(a.config.TokenFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func printUser(a *App, u *api.User) {
	fmt.Fprintf(a.out, "id:      %s\nemail:   %s\n", u.ID, u.Email)
	if u.Name != "" {
		fmt.Fprintf(a.out, "name:    %s\n", u.Name)
	}
	fmt.Fprintf(a.out, "created: %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
}
