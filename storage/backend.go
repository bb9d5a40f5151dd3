// Package storage opens the backend the store talks to.
package storage

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	"github.com/sreshtta/academy/storage/database"
	"github.com/sreshtta/academy/storage/database/dummy"
	"github.com/sreshtta/academy/storage/database/sqlx"
	"github.com/sreshtta/academy/storage/rest"
)

// Open returns the backend of conf.Store.Driver:
//   - rest: the hosted PostgREST api at store.url
//   - postgres: a database reached directly, created & migrated up when missing
//   - dummy: in-memory tables, holding the fixtures when store.fixtures is set
func Open(ctx context.Context, conf *core.Config, logger *log.Logger) (academy.Backend, error) {
	switch conf.Store.Driver {
	case core.DriverREST:
		client, err := restdb.Open(conf.Store)
		if err != nil {
			return nil, err
		}
		return client, nil

	case core.DriverPostgres:
		if conf.Database.AdminUser != "" {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = database.Ping(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err = database.Migrate(db.DB, "up", logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlxdb.New(db), nil

	case core.DriverDummy:
		db := dummydb.Open()
		if conf.Store.Fixtures {
			fixtures := store.Fixtures()
			db.Seed(dummydb.Data{
				Students: fixtures.Students,
				Staff:    fixtures.Staff,
				Courses:  fixtures.Courses,
				Groups:   fixtures.Groups,
				Payments: fixtures.Payments,
				Admins:   fixtures.Admins,
			})
		}
		return db, nil
	}
	return nil, errors.Errorf("unknown store driver %q", conf.Store.Driver)
}
