package handlers

import (
	"net/http"

	"itrack/core/catalog"
	"itrack/core/store"
	"itrack/core/utils"
)

// ReportsHandler serves the JSON aggregation endpoints the dashboard charts
// consume. Responses are the store rows verbatim, arrays of
// {dimension, count}.
type ReportsHandler struct {
	reports store.ReportsStore
	catalog *catalog.Catalog
	logger  *utils.Logger
}

func NewReportsHandler(reports store.ReportsStore, cat *catalog.Catalog, logger *utils.Logger) *ReportsHandler {
	return &ReportsHandler{reports: reports, catalog: cat, logger: logger}
}

func (h *ReportsHandler) IncidentsByMonth(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.CountByMonth(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(rows))
}

func (h *ReportsHandler) IncidentsByRootCause(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.CountByRootCause(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(rows))
}

// ActionItemsByStatus backs /api/incidents/status; the distribution it
// reports is action item status, which is what the status chart has always
// shown.
func (h *ReportsHandler) ActionItemsByStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.CountByStatus(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(rows))
}

func (h *ReportsHandler) ActionItemsByAssignee(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.CountByAssignee(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(rows))
}

func (h *ReportsHandler) RootCauses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.RootCauses())
}

func (h *ReportsHandler) IncidentStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.IncidentStatuses())
}

// emptyAsList keeps empty aggregations serializing as [] instead of null.
func emptyAsList[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
