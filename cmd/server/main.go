package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"itrack/api"
	"itrack/config"
	"itrack/core/auth"
	"itrack/core/bootstrap"
	"itrack/core/catalog"
	"itrack/core/ratelimit"
	"itrack/core/rbac"
	"itrack/core/store"
	"itrack/core/utils"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	logger := utils.NewLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		var missing *catalog.MissingError
		if errors.As(err, &missing) {
			logger.Errorf("%v", missing)
		} else {
			logger.Errorf("catalog: %v", err)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Errorf("store: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		logger.Errorf("migrations: %v", err)
		os.Exit(1)
	}

	users := store.NewUsersStore(db)
	sessions := store.NewSessionsStore(db)
	incidents := store.NewIncidentsStore(db, cat)
	actionItems := store.NewActionItemsStore(db, cat)
	reports := store.NewReportsStore(db)

	policy, err := rbac.NewPolicy()
	if err != nil {
		logger.Errorf("rbac: %v", err)
		os.Exit(1)
	}

	if err := bootstrap.EnsureDefaultAdmin(ctx, users, cfg, logger); err != nil {
		logger.Errorf("bootstrap: %v", err)
		os.Exit(1)
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.MaxPerWin, cfg.RateLimit.Window)
	}

	server := api.NewServer(cfg, api.ServerDeps{
		Users:          users,
		Sessions:       sessions,
		Incidents:      incidents,
		ActionItems:    actionItems,
		Reports:        reports,
		Catalog:        cat,
		Policy:         policy,
		SessionManager: auth.NewSessionManager(sessions, cfg, logger),
		Limiter:        limiter,
	}, logger)

	if err := server.Run(ctx); err != nil {
		logger.Errorf("server: %v", err)
		os.Exit(1)
	}
	logger.Printf("server: shutdown complete")
}
