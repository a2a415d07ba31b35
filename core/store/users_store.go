package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type UsersStore interface {
	Create(ctx context.Context, user *User) (int64, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Count(ctx context.Context) (int64, error)
}

type usersStore struct {
	db *DB
}

func NewUsersStore(db *DB) UsersStore {
	return &usersStore{db: db}
}

func (s *usersStore) Create(ctx context.Context, user *User) (int64, error) {
	if strings.TrimSpace(user.Username) == "" {
		return 0, missingField("username")
	}
	now := time.Now().UTC()
	var id int64
	if s.db.Driver() == DriverPostgres {
		err := s.db.QueryRowContext(ctx, s.db.Rebind(
			`INSERT INTO users(username, password_hash, role, created_at) VALUES(?,?,?,?) RETURNING id`),
			user.Username, user.PasswordHash, user.Role, now).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, ErrDuplicate
			}
			return 0, err
		}
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO users(username, password_hash, role, created_at) VALUES(?,?,?,?)`,
			user.Username, user.PasswordHash, user.Role, now)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, ErrDuplicate
			}
			return 0, err
		}
		id, _ = res.LastInsertId()
	}
	user.ID = id
	user.CreatedAt = now
	return id, nil
}

// FindByUsername is a case-sensitive exact match. A missing user yields
// ErrNotFound; callers in the login path must not distinguish it from a bad
// password.
func (s *usersStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username=?`), username)
	return scanUser(row)
}

func (s *usersStore) Get(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, username, password_hash, role, created_at FROM users WHERE id=?`), id)
	return scanUser(row)
}

func (s *usersStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "SQLSTATE 23505") // postgres
}
