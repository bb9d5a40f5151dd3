package main

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/storage/database"
)

// mockable
var migrateFunc = func(ctx context.Context, conf *core.Config, command string, logger *log.Logger) error {
	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()
	if err = database.Ping(ctx, db); err != nil {
		return err
	}
	return database.Migrate(db.DB, command, logger)
}

func (cli *commandLine) migrate(ctx context.Context, command string) error {
	switch command {
	case "up", "down", "status", "reset":
	default:
		return errors.Errorf("%q: no such command", command)
	}
	if cli.conf.Store.Driver != core.DriverPostgres {
		return errors.Errorf("migrations need the %s store driver, got %s", core.DriverPostgres, cli.conf.Store.Driver)
	}
	return migrateFunc(ctx, cli.conf, command, log.New(cli.out, "", 0))
}
