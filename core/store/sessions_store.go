package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SessionRecord struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type SessionStore interface {
	SaveSession(ctx context.Context, rec *SessionRecord) error
	// GetSession returns nil for unknown or expired ids: expiry is decided
	// here at lookup time, there is no background sweep.
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	UpdateActivity(ctx context.Context, id string, seenAt time.Time, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionsStore struct {
	db *DB
}

func NewSessionsStore(db *DB) SessionStore {
	return &sessionsStore{db: db}
}

func (s *sessionsStore) SaveSession(ctx context.Context, rec *SessionRecord) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO sessions(id, user_id, username, role, ip, user_agent, created_at, last_seen_at, expires_at)
		VALUES(?,?,?,?,?,?,?,?,?)`),
		rec.ID, rec.UserID, rec.Username, rec.Role, rec.IP, rec.UserAgent, rec.CreatedAt, rec.LastSeenAt, rec.ExpiresAt)
	return err
}

func (s *sessionsStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, user_id, username, role, ip, user_agent, created_at, last_seen_at, expires_at
		FROM sessions WHERE id=?`), id)
	var rec SessionRecord
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Username, &rec.Role, &rec.IP, &rec.UserAgent, &rec.CreatedAt, &rec.LastSeenAt, &rec.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !rec.ExpiresAt.After(time.Now().UTC()) {
		_ = s.DeleteSession(ctx, id)
		return nil, nil
	}
	return &rec, nil
}

func (s *sessionsStore) UpdateActivity(ctx context.Context, id string, seenAt time.Time, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE sessions SET last_seen_at=?, expires_at=? WHERE id=?`),
		seenAt, seenAt.Add(ttl), id)
	return err
}

func (s *sessionsStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE id=?`), id)
	return err
}

// DeleteExpired exists for operator tooling; request handling never relies on
// it.
func (s *sessionsStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
