package store

import (
	"context"
	"testing"
	"time"
)

func TestReportsAggregations(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	reports := NewReportsStore(db)
	ctx := context.Background()

	jan := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	i1 := mustCreateIncident(t, incidents, "I1", "Software Bug", "Open")
	i2 := mustCreateIncident(t, incidents, "I2", "Software Bug", "Closed")
	i3 := mustCreateIncident(t, incidents, "I3", "Hardware Failure", "Open")
	setIncidentCreatedAt(t, db, i1, jan)
	setIncidentCreatedAt(t, db, i2, jan)
	setIncidentCreatedAt(t, db, i3, mar)

	mustCreateItem(t, items, i1, "a", "alice", "", "Pending")
	mustCreateItem(t, items, i1, "b", "alice", "", "Done")
	mustCreateItem(t, items, i2, "c", "bob", "", "Pending")

	months, err := reports.CountByMonth(ctx)
	if err != nil {
		t.Fatalf("by month: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 month buckets, got %+v", months)
	}
	if months[0].Month != "2026-01" || months[0].Count != 2 {
		t.Fatalf("expected 2026-01 x2 first, got %+v", months[0])
	}
	if months[1].Month != "2026-03" || months[1].Count != 1 {
		t.Fatalf("expected 2026-03 x1 second, got %+v", months[1])
	}

	causes, err := reports.CountByRootCause(ctx)
	if err != nil {
		t.Fatalf("by root cause: %v", err)
	}
	if len(causes) != 2 || causes[0].RootCause != "Software Bug" || causes[0].Count != 2 {
		t.Fatalf("expected Software Bug x2 first, got %+v", causes)
	}

	// the status chart counts action items, not incidents
	statuses, err := reports.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	want := map[string]int64{"Done": 1, "Pending": 2}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d status buckets, got %+v", len(want), statuses)
	}
	for _, sc := range statuses {
		if want[sc.Status] != sc.Count {
			t.Fatalf("status %s: expected %d, got %d", sc.Status, want[sc.Status], sc.Count)
		}
	}

	assignees, err := reports.CountByAssignee(ctx)
	if err != nil {
		t.Fatalf("by assignee: %v", err)
	}
	if len(assignees) != 2 || assignees[0].Assignee != "alice" || assignees[0].Count != 2 {
		t.Fatalf("expected alice x2 first, got %+v", assignees)
	}
}

func TestReportsEmptyDatabase(t *testing.T) {
	db, _ := newTestDB(t)
	reports := NewReportsStore(db)
	ctx := context.Background()

	months, err := reports.CountByMonth(ctx)
	if err != nil {
		t.Fatalf("by month: %v", err)
	}
	if len(months) != 0 {
		t.Fatalf("expected no buckets, got %+v", months)
	}
	statuses, err := reports.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(statuses) != 0 {
		t.Fatalf("expected no buckets, got %+v", statuses)
	}
}
