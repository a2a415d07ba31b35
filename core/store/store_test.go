package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"itrack/config"
	"itrack/core/catalog"
	"itrack/core/utils"
)

func newTestDB(t *testing.T) (*DB, *catalog.Catalog) {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "itrack.db"),
	}
	logger := utils.NewLogger()
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	cat, err := catalog.New(config.CatalogConfig{
		RootCauses:         []string{"Hardware Failure", "Software Bug", "Human Error"},
		IncidentStatuses:   []string{"Open", "In Progress", "Closed"},
		ActionItemStatuses: []string{"Pending", "Done"},
		Assignees:          []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return db, cat
}

func mustCreateIncident(t *testing.T, s IncidentsStore, title, rootCause, status string) int64 {
	t.Helper()
	id, err := s.Create(context.Background(), &Incident{
		Title:       title,
		Description: "desc for " + title,
		RootCause:   rootCause,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create incident %s: %v", title, err)
	}
	return id
}

func mustCreateItem(t *testing.T, s ActionItemsStore, incidentID int64, text, assignee, due, status string) int64 {
	t.Helper()
	id, err := s.Create(context.Background(), &ActionItem{
		IncidentID: incidentID,
		ActionItem: text,
		AssignedTo: assignee,
		DueDate:    due,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("create action item %s: %v", text, err)
	}
	return id
}

// setIncidentCreatedAt backdates a row so aggregation and range tests can
// span months.
func setIncidentCreatedAt(t *testing.T, db *DB, id int64, at time.Time) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(),
		`UPDATE incidents SET created_at=? WHERE id=?`, at.UTC(), id); err != nil {
		t.Fatalf("backdate incident %d: %v", id, err)
	}
}
