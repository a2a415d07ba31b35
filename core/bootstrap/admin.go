package bootstrap

import (
	"context"
	"errors"

	"itrack/config"
	"itrack/core/auth"
	"itrack/core/rbac"
	"itrack/core/store"
	"itrack/core/utils"
)

// EnsureDefaultAdmin creates the configured admin account when it does not
// exist yet, so a fresh deployment is reachable. It never overwrites an
// existing user.
func EnsureDefaultAdmin(ctx context.Context, users store.UsersStore, cfg *config.AppConfig, logger *utils.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := users.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.Pepper)
	if err != nil {
		return err
	}
	user := &store.User{Username: cfg.AdminUsername, PasswordHash: hash, Role: rbac.RoleAdmin}
	if _, err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil
		}
		return err
	}
	logger.Printf("bootstrap: created default admin %q", cfg.AdminUsername)
	return nil
}
