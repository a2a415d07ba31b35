package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"itrack/config"
	"itrack/core/auth"
	"itrack/core/catalog"
	"itrack/core/store"
)

type handlerEnv struct {
	cfg         *config.AppConfig
	cat         *catalog.Catalog
	users       store.UsersStore
	sessions    store.SessionStore
	incidents   store.IncidentsStore
	actionItems store.ActionItemsStore
	reports     store.ReportsStore
	sm          *auth.SessionManager
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver:   store.DriverSQLite,
		DBPath:     filepath.Join(t.TempDir(), "handlers.db"),
		Pepper:     "pepper",
		SessionTTL: time.Hour,
	}
	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	cat, err := catalog.New(config.CatalogConfig{
		RootCauses:         []string{"Hardware Failure", "Software Bug"},
		IncidentStatuses:   []string{"Open", "Closed"},
		ActionItemStatuses: []string{"Pending", "Done"},
		Assignees:          []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sessions := store.NewSessionsStore(db)
	return &handlerEnv{
		cfg:         cfg,
		cat:         cat,
		users:       store.NewUsersStore(db),
		sessions:    sessions,
		incidents:   store.NewIncidentsStore(db, cat),
		actionItems: store.NewActionItemsStore(db, cat),
		reports:     store.NewReportsStore(db),
		sm:          auth.NewSessionManager(sessions, cfg, nil),
	}
}

func (env *handlerEnv) authHandler() *AuthHandler {
	return NewAuthHandler(env.cfg, env.users, env.sessions, env.sm, NewJSONRenderer(), nil, nil)
}

func (env *handlerEnv) incidentsHandler() *IncidentsHandler {
	return NewIncidentsHandler(env.incidents, env.actionItems, env.cat, NewJSONRenderer(), nil)
}

func (env *handlerEnv) actionItemsHandler() *ActionItemsHandler {
	return NewActionItemsHandler(env.actionItems, env.cat, NewJSONRenderer(), nil)
}

func (env *handlerEnv) reportsHandler() *ReportsHandler {
	return NewReportsHandler(env.reports, env.cat, nil)
}
