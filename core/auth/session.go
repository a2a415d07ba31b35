package auth

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"itrack/config"
	"itrack/core/store"
	"itrack/core/utils"
)

type contextKey string

// SessionContextKey carries the *store.SessionRecord through the request
// context once the middleware has authenticated it.
const SessionContextKey contextKey = "itrack.session"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionManager struct {
	store  store.SessionStore
	cfg    *config.AppConfig
	logger *utils.Logger
}

func NewSessionManager(store store.SessionStore, cfg *config.AppConfig, logger *utils.Logger) *SessionManager {
	return &SessionManager{store: store, cfg: cfg, logger: logger}
}

func (m *SessionManager) Create(ctx context.Context, user *store.User, ip, userAgent string) (*store.SessionRecord, error) {
	id := uuid.Must(uuid.NewV4()).String()
	now := utils.NowUTC()
	rec := &store.SessionRecord{
		ID:         id,
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(m.cfg.EffectiveSessionTTL()),
	}
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Refresh slides the expiry window forward from the current request.
func (m *SessionManager) Refresh(ctx context.Context, sessID string) error {
	return m.store.UpdateActivity(ctx, sessID, utils.NowUTC(), m.cfg.EffectiveSessionTTL())
}

func (m *SessionManager) Delete(ctx context.Context, sessID string) error {
	return m.store.DeleteSession(ctx, sessID)
}

// SessionFromContext returns the authenticated session, or nil outside the
// session middleware.
func SessionFromContext(ctx context.Context) *store.SessionRecord {
	if v := ctx.Value(SessionContextKey); v != nil {
		if rec, ok := v.(*store.SessionRecord); ok {
			return rec
		}
	}
	return nil
}
