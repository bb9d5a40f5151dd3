package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sreshtta/academy/core/session"
)

func (cli *commandLine) login(ctx context.Context, email string) error {
	usr, err := cli.sessions.Login(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "logged in as %s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	usr, err := cli.sessions.Current(ctx)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	} else if err != nil {
		return err
	}
	return cli.print(usr, func(w *tableWriter) {
		w.row("ID", "NAME", "EMAIL", "ROLE")
		w.row(usr.ID, usr.Name, usr.Email, string(usr.Role))
	})
}
