package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"itrack/core/catalog"
)

type ActionItem struct {
	ID            int64     `json:"id"`
	IncidentID    int64     `json:"incident_id"`
	ActionItem    string    `json:"action_item"`
	AssignedTo    string    `json:"assigned_to"`
	DueDate       string    `json:"due_date,omitempty"` // YYYY-MM-DD, empty when unset
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IncidentTitle string    `json:"incident_title,omitempty"`
}

type ActionItemFilter struct {
	AssignedTo string // case-insensitive substring
	IncidentID int64
	DueDate    string // exact YYYY-MM-DD match
	Status     string
}

type ActionItemsStore interface {
	Create(ctx context.Context, item *ActionItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*ActionItem, error)
	Update(ctx context.Context, item *ActionItem) error
	// Delete is idempotent: a missing id reports zero rows, not an error.
	Delete(ctx context.Context, id int64) (int64, error)
	ListFiltered(ctx context.Context, filter ActionItemFilter) ([]ActionItem, error)
	ListByIncidentID(ctx context.Context, incidentID int64) ([]ActionItem, error)
}

type actionItemsStore struct {
	db      *DB
	catalog *catalog.Catalog
}

func NewActionItemsStore(db *DB, cat *catalog.Catalog) ActionItemsStore {
	return &actionItemsStore{db: db, catalog: cat}
}

func (s *actionItemsStore) Create(ctx context.Context, item *ActionItem) (int64, error) {
	if item.IncidentID <= 0 {
		return 0, missingField("incident_id")
	}
	if strings.TrimSpace(item.ActionItem) == "" {
		return 0, missingField("action_item")
	}
	if strings.TrimSpace(item.AssignedTo) == "" {
		return 0, missingField("assigned_to")
	}
	if strings.TrimSpace(item.Status) == "" {
		return 0, missingField("status")
	}
	if !s.catalog.ValidActionItemStatus(item.Status) {
		return 0, invalidEnum("status")
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM incidents WHERE id=?`), item.IncidentID).Scan(&exists); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, ErrForeignKey
	}
	now := time.Now().UTC()
	var id int64
	if s.db.Driver() == DriverPostgres {
		err := s.db.QueryRowContext(ctx, s.db.Rebind(`
			INSERT INTO action_items(incident_id, action_item, assigned_to, due_date, status, created_at, updated_at)
			VALUES(?,?,?,?,?,?,?) RETURNING id`),
			item.IncidentID, item.ActionItem, item.AssignedTo, nullableString(item.DueDate), item.Status, now, now).Scan(&id)
		if err != nil {
			return 0, err
		}
	} else {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO action_items(incident_id, action_item, assigned_to, due_date, status, created_at, updated_at)
			VALUES(?,?,?,?,?,?,?)`,
			item.IncidentID, item.ActionItem, item.AssignedTo, nullableString(item.DueDate), item.Status, now, now)
		if err != nil {
			return 0, err
		}
		id, _ = res.LastInsertId()
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return id, nil
}

// GetByID joins the parent incident so views can show its title.
func (s *actionItemsStore) GetByID(ctx context.Context, id int64) (*ActionItem, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT ai.id, ai.incident_id, ai.action_item, ai.assigned_to, ai.due_date, ai.status, ai.created_at, ai.updated_at, i.title
		FROM action_items ai
		JOIN incidents i ON i.id = ai.incident_id
		WHERE ai.id=?`), id)
	var item ActionItem
	var due sql.NullString
	if err := row.Scan(&item.ID, &item.IncidentID, &item.ActionItem, &item.AssignedTo, &due, &item.Status, &item.CreatedAt, &item.UpdatedAt, &item.IncidentTitle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item.DueDate = due.String
	return &item, nil
}

func (s *actionItemsStore) Update(ctx context.Context, item *ActionItem) error {
	if strings.TrimSpace(item.ActionItem) == "" {
		return missingField("action_item")
	}
	if strings.TrimSpace(item.AssignedTo) == "" {
		return missingField("assigned_to")
	}
	if strings.TrimSpace(item.Status) == "" {
		return missingField("status")
	}
	if !s.catalog.ValidActionItemStatus(item.Status) {
		return invalidEnum("status")
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE action_items SET action_item=?, assigned_to=?, due_date=?, status=?, updated_at=?
		WHERE id=?`),
		item.ActionItem, item.AssignedTo, nullableString(item.DueDate), item.Status, time.Now().UTC(), item.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *actionItemsStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM action_items WHERE id=?`), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *actionItemsStore) ListFiltered(ctx context.Context, filter ActionItemFilter) ([]ActionItem, error) {
	var clauses []string
	var args []any
	if filter.AssignedTo != "" {
		clauses = append(clauses, "LOWER(assigned_to) LIKE '%' || LOWER(?) || '%'")
		args = append(args, filter.AssignedTo)
	}
	if filter.IncidentID > 0 {
		clauses = append(clauses, "incident_id=?")
		args = append(args, filter.IncidentID)
	}
	if filter.DueDate != "" {
		clauses = append(clauses, "due_date=?")
		args = append(args, filter.DueDate)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, filter.Status)
	}
	query := `SELECT id, incident_id, action_item, assigned_to, due_date, status, created_at, updated_at FROM action_items`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id ASC"
	return s.queryItems(ctx, s.db.Rebind(query), args...)
}

func (s *actionItemsStore) ListByIncidentID(ctx context.Context, incidentID int64) ([]ActionItem, error) {
	return s.queryItems(ctx, s.db.Rebind(`
		SELECT id, incident_id, action_item, assigned_to, due_date, status, created_at, updated_at
		FROM action_items WHERE incident_id=? ORDER BY id ASC`), incidentID)
}

func (s *actionItemsStore) queryItems(ctx context.Context, query string, args ...any) ([]ActionItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []ActionItem
	for rows.Next() {
		var item ActionItem
		var due sql.NullString
		if err := rows.Scan(&item.ID, &item.IncidentID, &item.ActionItem, &item.AssignedTo, &due, &item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.DueDate = due.String
		res = append(res, item)
	}
	return res, rows.Err()
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
