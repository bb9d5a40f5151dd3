package main

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/session"
	"github.com/sreshtta/academy/core/store"
	emailsvc "github.com/sreshtta/academy/services/email"
	logsvc "github.com/sreshtta/academy/services/logger"
	"github.com/sreshtta/academy/storage"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.New("ADMIN : ", conf)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// set up backend & store
	backend, err := storage.Open(ctx, conf, logger.Std())
	if err != nil {
		logger.Fatal("setting up backend", err)
	}
	validate, _ := academy.NewValidator()
	st := store.New(store.Options{
		Backend:  backend,
		Logger:   logger,
		Validate: validate,
		Accounts: store.DemoAccounts,
	})
	if err = st.RefreshData(ctx); err != nil {
		logger.Warn("refreshing data", err)
	}

	sessions, err := session.New(conf)
	if err != nil {
		logger.Fatal("setting up sessions", err)
	}

	// start CLI
	cli := commandLine{
		conf:     conf,
		store:    st,
		sessions: session.NewManager(sessions, st),
		mailer:   emailsvc.New(conf, logger),
		out:      os.Stdout,
		table:    term.IsTerminal(int(os.Stdout.Fd())),
	}
	err = cli.run(ctx, os.Args)
	_ = backend.Close()
	if c, ok := sessions.(io.Closer); ok {
		_ = c.Close()
	}
	if err != nil {
		if err != errHelp {
			logger.Std().Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
