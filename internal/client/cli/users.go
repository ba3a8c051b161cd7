package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) whoami(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.WhoAmI(ctx)
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func (a *App) users(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tCREATED")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
