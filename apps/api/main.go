package main

import (
	"context"
	"expvar"
	"fmt"
	"time"

	"github.com/sreshtta/academy/apps/api/echo"
	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	"github.com/sreshtta/academy/services/email"
	"github.com/sreshtta/academy/services/logger"
	"github.com/sreshtta/academy/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.New("API : ", conf)
	storeLogger := logsvc.New("STORE : ", conf)

	// set up backend
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	backend, err := storage.Open(ctx, conf, storeLogger.Std())
	cancel()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up backend: %v", err), err)
	}
	defer func() {
		if err = backend.Close(); err != nil {
			storeLogger.Error("Failed to close", err)
		}
	}()

	validate, translator := academy.NewValidator()

	var seed *store.Snapshot
	if conf.Store.Fixtures {
		fixtures := store.Fixtures()
		seed = &fixtures
	}
	st := store.New(store.Options{
		Backend:  backend,
		Logger:   storeLogger,
		Validate: validate,
		Seed:     seed,
		Accounts: store.DemoAccounts,
	})

	mailSvc := emailsvc.New(conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	ctx, cancel = context.WithTimeout(context.Background(), conf.Store.Timeout)
	if err = st.RefreshData(ctx); err != nil {
		logger.Warn("initial refresh failed, serving the seed data", err)
	}
	cancel()

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("outbox", expvar.Func(func() interface{} { return st.SyncStatus() }))

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Store:      st,
		Mailer:     mailSvc,
		Translator: translator,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}

		// last chance to push the local mutations
		if report, err := st.Sync(ctx); err != nil {
			logger.Warn(fmt.Sprintf("%d mutations left unsynced", report.Pending), err)
		}
	}
}
