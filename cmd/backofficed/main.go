// Command backofficed runs the brokerage back-office API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/api"
	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/config"
	"github.com/brokeragehq/backoffice/internal/db"
	"github.com/brokeragehq/backoffice/internal/db/migrations"
	"github.com/brokeragehq/backoffice/internal/dbpool"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/service"
	"github.com/brokeragehq/backoffice/internal/store"
	"github.com/brokeragehq/backoffice/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	// Audited field schemas drive both the differ and feed validation.
	registry := audit.NewRegistry()
	models.RegisterSchemas(registry)

	base := store.Base{
		Pool: pool,
		Log:  log,
		Rec:  audit.NewRecorder(registry),
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	if cfg.EnableChangeFeed {
		bridge := db.NewNotifyBridge(log, pool, hub)
		if err := bridge.Start(ctx); err != nil {
			return err
		}
	}

	changeLog := store.NewChangeLogStore(base)

	deps := &api.RouterDeps{
		Log:              log,
		Pool:             pool,
		Hub:              hub,
		Clients:          service.NewClientService(store.NewClientStore(base), log),
		Accounts:         service.NewAccountService(store.NewAccountStore(base), log),
		Instruments:      service.NewInstrumentService(store.NewInstrumentStore(base), log),
		Orders:           service.NewOrderService(store.NewOrderStore(base), log),
		Transactions:     service.NewTransactionService(store.NewTransactionStore(base), log),
		Changes:          service.NewChangeQueryService(changeLog, registry, int64(cfg.MaxPageSize), log),
		ActorLookup:      &base,
		CORSOrigins:      cfg.CORSOrigins,
		Version:          config.Version,
		EnableChangeFeed: cfg.EnableChangeFeed,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": config.Version,
		}).Info("back-office listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	hub.Shutdown()

	return nil
}
