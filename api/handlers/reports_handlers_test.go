package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itrack/core/store"
)

func TestReportsEmptyAggregationsAreLists(t *testing.T) {
	env := newHandlerEnv(t)
	h := env.reportsHandler()

	endpoints := []func(http.ResponseWriter, *http.Request){
		h.IncidentsByMonth,
		h.IncidentsByRootCause,
		h.ActionItemsByStatus,
		h.ActionItemsByAssignee,
	}
	for i, handler := range endpoints {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("endpoint %d: expected 200, got %d", i, rr.Code)
		}
		if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
			t.Fatalf("endpoint %d: expected empty list, got %s", i, body)
		}
	}
}

func TestReportsStatusChartCountsActionItems(t *testing.T) {
	env := newHandlerEnv(t)
	h := env.reportsHandler()
	ctx := context.Background()

	incID, err := env.incidents.Create(ctx, &store.Incident{
		Title: "I", Description: "d", RootCause: "Software Bug", Status: "Closed",
	})
	if err != nil {
		t.Fatalf("seed incident: %v", err)
	}
	for _, status := range []string{"Pending", "Pending", "Done"} {
		if _, err := env.actionItems.Create(ctx, &store.ActionItem{
			IncidentID: incID, ActionItem: "a", AssignedTo: "alice", Status: status,
		}); err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}

	rr := httptest.NewRecorder()
	h.ActionItemsByStatus(rr, httptest.NewRequest(http.MethodGet, "/api/incidents/status", nil))
	var rows []store.StatusCount
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int64{"Done": 1, "Pending": 2}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for _, row := range rows {
		if want[row.Status] != row.Count {
			t.Fatalf("status %s: expected %d, got %d", row.Status, want[row.Status], row.Count)
		}
	}
	// the incident's own status never shows up here
	for _, row := range rows {
		if row.Status == "Closed" {
			t.Fatalf("incident status leaked into the action item chart")
		}
	}
}

func TestCatalogEndpoints(t *testing.T) {
	env := newHandlerEnv(t)
	h := env.reportsHandler()

	rr := httptest.NewRecorder()
	h.RootCauses(rr, httptest.NewRequest(http.MethodGet, "/api/root-causes", nil))
	var causes []string
	if err := json.Unmarshal(rr.Body.Bytes(), &causes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(causes) != 2 || causes[0] != "Hardware Failure" {
		t.Fatalf("unexpected root causes: %v", causes)
	}

	rr = httptest.NewRecorder()
	h.IncidentStatuses(rr, httptest.NewRequest(http.MethodGet, "/api/incident-statuses", nil))
	var statuses []string
	if err := json.Unmarshal(rr.Body.Bytes(), &statuses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statuses) != 2 || statuses[0] != "Open" {
		t.Fatalf("unexpected statuses: %v", statuses)
	}
}
