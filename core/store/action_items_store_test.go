package store

import (
	"context"
	"errors"
	"testing"
)

func TestActionItemCreateRequiresExistingIncident(t *testing.T) {
	db, cat := newTestDB(t)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()

	_, err := items.Create(ctx, &ActionItem{
		IncidentID: 777, ActionItem: "restart node", AssignedTo: "alice", Status: "Pending",
	})
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}
}

func TestActionItemCreateValidation(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()
	incID := mustCreateIncident(t, incidents, "I", "Software Bug", "Open")

	cases := []ActionItem{
		{IncidentID: incID, ActionItem: "", AssignedTo: "alice", Status: "Pending"},
		{IncidentID: incID, ActionItem: "fix", AssignedTo: "", Status: "Pending"},
		{IncidentID: incID, ActionItem: "fix", AssignedTo: "alice", Status: ""},
		{IncidentID: incID, ActionItem: "fix", AssignedTo: "alice", Status: "Nope"},
		{IncidentID: 0, ActionItem: "fix", AssignedTo: "alice", Status: "Pending"},
	}
	for i, c := range cases {
		if _, err := items.Create(ctx, &c); !IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestActionItemGetJoinsIncidentTitle(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()

	incID := mustCreateIncident(t, incidents, "Router crash", "Hardware Failure", "Open")
	id := mustCreateItem(t, items, incID, "replace PSU", "bob", "2026-09-15", "Pending")

	got, err := items.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IncidentTitle != "Router crash" {
		t.Fatalf("expected joined incident title, got %q", got.IncidentTitle)
	}
	if got.DueDate != "2026-09-15" {
		t.Fatalf("due date roundtrip: got %q", got.DueDate)
	}

	if _, err := items.GetByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActionItemUpdate(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()

	incID := mustCreateIncident(t, incidents, "I", "Human Error", "Open")
	id := mustCreateItem(t, items, incID, "write runbook", "alice", "", "Pending")

	err := items.Update(ctx, &ActionItem{ID: id, ActionItem: "write runbook", AssignedTo: "bob", DueDate: "2026-10-01", Status: "Done"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := items.GetByID(ctx, id)
	if got.AssignedTo != "bob" || got.Status != "Done" || got.DueDate != "2026-10-01" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("updated_at not advanced: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	err = items.Update(ctx, &ActionItem{ID: 4242, ActionItem: "x", AssignedTo: "y", Status: "Done"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestActionItemDeleteIsIdempotent(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()

	incID := mustCreateIncident(t, incidents, "I", "Human Error", "Open")
	id := mustCreateItem(t, items, incID, "cleanup", "alice", "", "Pending")

	n, err := items.Delete(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = items.Delete(ctx, id)
	if err != nil || n != 0 {
		t.Fatalf("second delete should report zero rows: n=%d err=%v", n, err)
	}
}

func TestActionItemListFiltered(t *testing.T) {
	db, cat := newTestDB(t)
	incidents := NewIncidentsStore(db, cat)
	items := NewActionItemsStore(db, cat)
	ctx := context.Background()

	inc1 := mustCreateIncident(t, incidents, "I1", "Software Bug", "Open")
	inc2 := mustCreateIncident(t, incidents, "I2", "Human Error", "Open")
	mustCreateItem(t, items, inc1, "a", "Alice Jones", "2026-09-10", "Pending")
	mustCreateItem(t, items, inc1, "b", "bob", "2026-09-10", "Done")
	mustCreateItem(t, items, inc2, "c", "alice", "", "Pending")

	byAssignee, err := items.ListFiltered(ctx, ActionItemFilter{AssignedTo: "ALICE"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byAssignee) != 2 {
		t.Fatalf("assignee substring match: expected 2, got %d", len(byAssignee))
	}

	byDue, _ := items.ListFiltered(ctx, ActionItemFilter{DueDate: "2026-09-10"})
	if len(byDue) != 2 {
		t.Fatalf("due date exact match: expected 2, got %d", len(byDue))
	}

	combined, _ := items.ListFiltered(ctx, ActionItemFilter{AssignedTo: "alice", IncidentID: inc1, Status: "Pending"})
	if len(combined) != 1 || combined[0].ActionItem != "a" {
		t.Fatalf("combined filter: got %+v", combined)
	}

	byIncident, _ := items.ListByIncidentID(ctx, inc1)
	if len(byIncident) != 2 || byIncident[0].ID >= byIncident[1].ID {
		t.Fatalf("expected 2 items in id order for incident %d, got %+v", inc1, byIncident)
	}
}
