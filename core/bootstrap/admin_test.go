package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"itrack/config"
	"itrack/core/auth"
	"itrack/core/rbac"
	"itrack/core/store"
)

func newUsersStore(t *testing.T) store.UsersStore {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: store.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "bootstrap.db"),
	}
	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return store.NewUsersStore(db)
}

func TestEnsureDefaultAdminCreatesAccount(t *testing.T) {
	users := newUsersStore(t)
	cfg := &config.AppConfig{AdminUsername: "admin", AdminPassword: "bootstrap-secret", Pepper: "pepper"}
	ctx := context.Background()

	if err := EnsureDefaultAdmin(ctx, users, cfg, nil); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	got, err := users.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Role != rbac.RoleAdmin {
		t.Fatalf("expected admin role, got %s", got.Role)
	}
	if !auth.VerifyPassword("bootstrap-secret", "pepper", got.PasswordHash) {
		t.Fatalf("stored hash does not match configured password")
	}
}

func TestEnsureDefaultAdminNeverOverwrites(t *testing.T) {
	users := newUsersStore(t)
	ctx := context.Background()
	original := &store.User{Username: "admin", PasswordHash: "existing-hash", Role: rbac.RoleEngineer}
	if _, err := users.Create(ctx, original); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := &config.AppConfig{AdminUsername: "admin", AdminPassword: "other", Pepper: "pepper"}
	if err := EnsureDefaultAdmin(ctx, users, cfg, nil); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	got, _ := users.FindByUsername(ctx, "admin")
	if got.PasswordHash != "existing-hash" || got.Role != rbac.RoleEngineer {
		t.Fatalf("existing account modified: %+v", got)
	}
}

func TestEnsureDefaultAdminSkipsWithoutCredentials(t *testing.T) {
	users := newUsersStore(t)
	ctx := context.Background()
	if err := EnsureDefaultAdmin(ctx, users, &config.AppConfig{AdminUsername: "admin"}, nil); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	n, _ := users.Count(ctx)
	if n != 0 {
		t.Fatalf("no account should be created without a password, got %d users", n)
	}
}
