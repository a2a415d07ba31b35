package handlers

import (
	"net/http"
	"strings"
	"time"

	"itrack/core/catalog"
	"itrack/core/store"
	"itrack/core/utils"
)

type IncidentsHandler struct {
	incidents   store.IncidentsStore
	actionItems store.ActionItemsStore
	catalog     *catalog.Catalog
	renderer    Renderer
	logger      *utils.Logger
}

func NewIncidentsHandler(incidents store.IncidentsStore, actionItems store.ActionItemsStore, cat *catalog.Catalog, renderer Renderer, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{incidents: incidents, actionItems: actionItems, catalog: cat, renderer: renderer, logger: logger}
}

// List renders the incident table, filtered by any combination of date range,
// root cause, status and action-item assignee.
func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.IncidentFilter{
		RootCause: strings.TrimSpace(q.Get("rootCause")),
		Status:    strings.TrimSpace(q.Get("status")),
		Assignee:  strings.TrimSpace(q.Get("assignee")),
	}
	for _, bound := range []struct {
		key string
		dst **time.Time
	}{
		{"startDate", &filter.Start},
		{"endDate", &filter.End},
	} {
		raw := strings.TrimSpace(q.Get(bound.key))
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, bound.key+" must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		*bound.dst = &parsed
	}
	incidents, err := h.incidents.ListFiltered(r.Context(), filter)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "incidents", map[string]any{
		"incidents":      incidents,
		"rootCauses":     h.catalog.RootCauses(),
		"statuses":       h.catalog.IncidentStatuses(),
		"startDate":      q.Get("startDate"),
		"endDate":        q.Get("endDate"),
		"rootCause":      filter.RootCause,
		"selectedStatus": filter.Status,
		"assignee":       filter.Assignee,
	})
}

func (h *IncidentsHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "incidents/create", map[string]any{
		"success":    false,
		"incidentId": nil,
		"rootCauses": h.catalog.RootCauses(),
	})
}

type incidentPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RootCause   string `json:"root_cause"`
	Status      string `json:"status"`
}

func (h *IncidentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload incidentPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	incident := &store.Incident{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		RootCause:   strings.TrimSpace(payload.RootCause),
	}
	id, err := h.incidents.Create(r.Context(), incident)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.logger.Printf("incident created id=%d root_cause=%s", id, incident.RootCause)
	if wantsHTML(r) {
		_ = h.renderer.Render(w, r, "incidents/create", map[string]any{
			"success":    true,
			"incidentId": id,
			"rootCauses": h.catalog.RootCauses(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, incident)
}

func (h *IncidentsHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	incident, err := h.incidents.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	items, err := h.actionItems.ListByIncidentID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "incidents/edit", map[string]any{
		"title":              "Edit Incident",
		"incident":           incident,
		"rootCauses":         h.catalog.RootCauses(),
		"statuses":           h.catalog.IncidentStatuses(),
		"actionItemStatuses": h.catalog.ActionItemStatuses(),
		"actionItems":        items,
	})
}

func (h *IncidentsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var payload incidentPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	incident := &store.Incident{
		ID:          id,
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		RootCause:   strings.TrimSpace(payload.RootCause),
		Status:      strings.TrimSpace(payload.Status),
	}
	if err := h.incidents.Update(r.Context(), incident); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/incidents", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (h *IncidentsHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	incident, err := h.incidents.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	items, err := h.actionItems.ListByIncidentID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "incidents/view", map[string]any{
		"title":       "View Incident",
		"incident":    incident,
		"actionItems": items,
	})
}
