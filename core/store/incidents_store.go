package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"itrack/core/catalog"
)

type Incident struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RootCause   string    `json:"root_cause"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// IncidentFilter fields are conjunctive; zero values mean "no constraint".
// Start and End are inclusive bounds on created_at. Assignee matches
// case-insensitively as a substring of any linked action item's assignee.
type IncidentFilter struct {
	Start     *time.Time
	End       *time.Time
	RootCause string
	Status    string
	Assignee  string
}

type IncidentsStore interface {
	Create(ctx context.Context, incident *Incident) (int64, error)
	GetByID(ctx context.Context, id int64) (*Incident, error)
	Update(ctx context.Context, incident *Incident) error
	ListFiltered(ctx context.Context, filter IncidentFilter) ([]Incident, error)
}

type incidentsStore struct {
	db      *DB
	catalog *catalog.Catalog
}

func NewIncidentsStore(db *DB, cat *catalog.Catalog) IncidentsStore {
	return &incidentsStore{db: db, catalog: cat}
}

func (s *incidentsStore) Create(ctx context.Context, incident *Incident) (int64, error) {
	if strings.TrimSpace(incident.Title) == "" {
		return 0, missingField("title")
	}
	if strings.TrimSpace(incident.Description) == "" {
		return 0, missingField("description")
	}
	if !s.catalog.ValidRootCause(incident.RootCause) {
		return 0, invalidEnum("root_cause")
	}
	if strings.TrimSpace(incident.Status) == "" {
		incident.Status = s.catalog.DefaultIncidentStatus()
	} else if !s.catalog.ValidIncidentStatus(incident.Status) {
		return 0, invalidEnum("status")
	}
	now := time.Now().UTC()
	var id int64
	if s.db.Driver() == DriverPostgres {
		err := s.db.QueryRowContext(ctx, s.db.Rebind(
			`INSERT INTO incidents(title, description, root_cause, status, created_at) VALUES(?,?,?,?,?) RETURNING id`),
			incident.Title, incident.Description, incident.RootCause, incident.Status, now).Scan(&id)
		if err != nil {
			return 0, err
		}
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO incidents(title, description, root_cause, status, created_at) VALUES(?,?,?,?,?)`,
			incident.Title, incident.Description, incident.RootCause, incident.Status, now)
		if err != nil {
			return 0, err
		}
		id, _ = res.LastInsertId()
	}
	incident.ID = id
	incident.CreatedAt = now
	return id, nil
}

func (s *incidentsStore) GetByID(ctx context.Context, id int64) (*Incident, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, title, description, root_cause, status, created_at FROM incidents WHERE id=?`), id)
	var inc Incident
	if err := row.Scan(&inc.ID, &inc.Title, &inc.Description, &inc.RootCause, &inc.Status, &inc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inc, nil
}

// Update never inserts: a missing id is ErrNotFound.
func (s *incidentsStore) Update(ctx context.Context, incident *Incident) error {
	if strings.TrimSpace(incident.Title) == "" {
		return missingField("title")
	}
	if strings.TrimSpace(incident.Description) == "" {
		return missingField("description")
	}
	if !s.catalog.ValidRootCause(incident.RootCause) {
		return invalidEnum("root_cause")
	}
	if !s.catalog.ValidIncidentStatus(incident.Status) {
		return invalidEnum("status")
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE incidents SET title=?, description=?, root_cause=?, status=? WHERE id=?`),
		incident.Title, incident.Description, incident.RootCause, incident.Status, incident.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *incidentsStore) ListFiltered(ctx context.Context, filter IncidentFilter) ([]Incident, error) {
	var clauses []string
	var args []any
	if filter.Start != nil {
		clauses = append(clauses, "i.created_at >= ?")
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		// inclusive upper bound on a date: everything before the next day
		clauses = append(clauses, "i.created_at < ?")
		args = append(args, filter.End.UTC().Add(24*time.Hour))
	}
	if filter.RootCause != "" {
		clauses = append(clauses, "i.root_cause=?")
		args = append(args, filter.RootCause)
	}
	if filter.Status != "" {
		clauses = append(clauses, "i.status=?")
		args = append(args, filter.Status)
	}
	if filter.Assignee != "" {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM action_items ai
			WHERE ai.incident_id = i.id AND LOWER(ai.assigned_to) LIKE '%' || LOWER(?) || '%'
		)`)
		args = append(args, filter.Assignee)
	}
	query := `SELECT i.id, i.title, i.description, i.root_cause, i.status, i.created_at FROM incidents i`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY i.id ASC"
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.Title, &inc.Description, &inc.RootCause, &inc.Status, &inc.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, inc)
	}
	return res, rows.Err()
}
