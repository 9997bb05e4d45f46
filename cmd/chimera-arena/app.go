package main

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/chimera-arena/internal/api"
	"github.com/ericogr/chimera-arena/internal/catalog"
	"github.com/ericogr/chimera-arena/internal/config"
	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
	"github.com/ericogr/chimera-arena/internal/service"
	"github.com/ericogr/chimera-arena/internal/session"
	"github.com/ericogr/chimera-arena/internal/storage"
	"github.com/ericogr/chimera-arena/internal/telemetry"
)

const serviceName = "chimera-arena"

type app struct {
	cfg      *config.LoadedConfig
	env      config.Env
	svc      *service.BattleService
	store    *session.Store
	handler  *api.BattleHandler
	signer   *api.SessionSigner
	shutdown []func(context.Context) error
}

func loadConfigOrExit(env config.Env) *config.LoadedConfig {
	cfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": env.ConfigPath, "hint": "create an arena_config.json with 'card_list' and 'creature_list' arrays"})
	}
	env.Apply(cfg)
	return cfg
}

func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) (storage.Repository, func(context.Context) error) {
	db, err := storage.OpenAndMigrate(dbPath, cfg.Cards, cfg.Creatures)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	closeDB := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return storage.NewSQLiteRepository(db), closeDB
}

func newPublisher(env config.Env, hub *notify.Hub) notify.Publisher {
	if env.RelayURL == "" {
		return hub
	}
	logging.Info("relay publisher enabled", logging.Fields{constants.LogFieldURL: env.RelayURL})
	return notify.Multi{hub, notify.NewRelay(env.RelayURL, env.RelayKey)}
}

// newApp wires every component. Failures during startup are fatal.
func newApp(ctx context.Context, env config.Env) *app {
	cfg := loadConfigOrExit(env)
	a := &app{cfg: cfg, env: env}

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, env.OTelEndpoint)
	if err != nil {
		logging.Fatal("Failed to set up tracing", err, logging.Fields{constants.LogFieldURL: env.OTelEndpoint})
	}
	a.shutdown = append(a.shutdown, shutdownTracing)

	repo, closeDB := createRepositoryOrExit(env.DatabasePath, cfg)
	a.shutdown = append(a.shutdown, closeDB)

	cat := catalog.New(repo)
	if err := cat.Load(); err != nil {
		logging.Fatal("Failed to load catalog", err, nil)
	}

	hub := notify.NewHub()
	a.store = session.NewStore(session.Config{IdleTimeout: cfg.IdleTimeout, FinishedGrace: cfg.FinishedGrace})
	a.svc = service.NewBattleService(a.store, cat, repo, newPublisher(env, hub), service.Settings{
		RoundTimeout:             cfg.RoundTimeout,
		ForfeitAfterMissedRounds: cfg.ForfeitAfterMissedRounds,
		TeamSize:                 cfg.TeamSize,
	})
	a.handler = api.NewBattleHandler(a.svc, cat, hub)

	a.signer, err = api.NewSessionSigner(env.SessionSecret, 0)
	if err != nil {
		logging.Fatal("Failed to set up sessions", err, nil)
	}
	if env.SessionSecret == "" {
		logging.Warn("SESSION_SECRET not set; using an in-memory secret", nil)
	}
	return a
}

func (a *app) run(ctx context.Context) error {
	a.store.StartSweeper(ctx, a.env.SweepInterval)
	a.svc.TimeoutScanner(ctx, a.env.ScanInterval)

	err := serve(ctx, a.cfg.ServerAddress, api.NewRouter(a.handler, a.signer))

	// let in-flight notifications finish before tearing down
	a.svc.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		err = errors.Join(err, a.shutdown[i](shutdownCtx))
	}
	return err
}

func issueToken(env config.Env, address string) (string, error) {
	if env.SessionSecret == "" {
		return "", errors.New("SESSION_SECRET must be set to issue tokens")
	}
	signer, err := api.NewSessionSigner(env.SessionSecret, 0)
	if err != nil {
		return "", err
	}
	return signer.Issue(address)
}
