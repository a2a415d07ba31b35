package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"itrack/core/catalog"
	"itrack/core/store"
	"itrack/core/utils"
)

type ActionItemsHandler struct {
	actionItems store.ActionItemsStore
	catalog     *catalog.Catalog
	renderer    Renderer
	logger      *utils.Logger
}

func NewActionItemsHandler(actionItems store.ActionItemsStore, cat *catalog.Catalog, renderer Renderer, logger *utils.Logger) *ActionItemsHandler {
	return &ActionItemsHandler{actionItems: actionItems, catalog: cat, renderer: renderer, logger: logger}
}

func (h *ActionItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ActionItemFilter{
		AssignedTo: strings.TrimSpace(q.Get("assignedTo")),
		DueDate:    strings.TrimSpace(q.Get("dueDate")),
		Status:     strings.TrimSpace(q.Get("status")),
	}
	if raw := strings.TrimSpace(q.Get("incidentId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "incidentId must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.IncidentID = id
	}
	if filter.DueDate != "" {
		if err := utils.ValidateDate(filter.DueDate); err != nil {
			http.Error(w, "dueDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	items, err := h.actionItems.ListFiltered(r.Context(), filter)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "actionItems/actionItems", map[string]any{
		"title":          "Action Items",
		"actionItems":    items,
		"assignedTo":     filter.AssignedTo,
		"incidentId":     q.Get("incidentId"),
		"dueDate":        filter.DueDate,
		"statuses":       h.catalog.ActionItemStatuses(),
		"selectedStatus": filter.Status,
	})
}

func (h *ActionItemsHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "actionItems/create", map[string]any{
		"success":    false,
		"actionId":   nil,
		"incidentId": nil,
		"statuses":   h.catalog.ActionItemStatuses(),
		"assignees":  h.catalog.Assignees(),
	})
}

type actionItemPayload struct {
	IncidentID int64  `json:"incident_id"`
	ActionItem string `json:"action_item"`
	AssignedTo string `json:"assigned_to"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
}

func (h *ActionItemsHandler) decodeItem(w http.ResponseWriter, r *http.Request) (*store.ActionItem, bool) {
	var payload actionItemPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, false
	}
	payload.DueDate = strings.TrimSpace(payload.DueDate)
	if payload.DueDate != "" {
		if err := utils.ValidateDate(payload.DueDate); err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return nil, false
		}
	}
	return &store.ActionItem{
		IncidentID: payload.IncidentID,
		ActionItem: strings.TrimSpace(payload.ActionItem),
		AssignedTo: strings.TrimSpace(payload.AssignedTo),
		DueDate:    payload.DueDate,
		Status:     strings.TrimSpace(payload.Status),
	}, true
}

func (h *ActionItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	id, err := h.actionItems.Create(r.Context(), item)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.logger.Printf("action item created id=%d incident=%d assignee=%s", id, item.IncidentID, item.AssignedTo)
	if wantsHTML(r) {
		_ = h.renderer.Render(w, r, "actionItems/create", map[string]any{
			"success":    true,
			"actionId":   id,
			"incidentId": item.IncidentID,
			"statuses":   h.catalog.ActionItemStatuses(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// CreateForIncident is the form variant used from the incident edit page; it
// sends the browser straight back to the parent incident.
func (h *ActionItemsHandler) CreateForIncident(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	if _, err := h.actionItems.Create(r.Context(), item); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/incidents/edit/%d", item.IncidentID), http.StatusFound)
}

func (h *ActionItemsHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, err := h.actionItems.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "actionItems/view", map[string]any{
		"title":      "View Action Item",
		"actionItem": item,
	})
}

func (h *ActionItemsHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, err := h.actionItems.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	_ = h.renderer.Render(w, r, "actionItems/edit", map[string]any{
		"title":              "Edit Action Item",
		"actionItem":         item,
		"incident_id":        item.IncidentID,
		"actionItemStatuses": h.catalog.ActionItemStatuses(),
	})
}

func (h *ActionItemsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, decoded := h.decodeItem(w, r)
	if !decoded {
		return
	}
	item.ID = id
	if err := h.actionItems.Update(r.Context(), item); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if wantsHTML(r) && item.IncidentID > 0 {
		http.Redirect(w, r, fmt.Sprintf("/incidents/view/%d", item.IncidentID), http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete is idempotent: removing an absent id reports zero deleted rows with
// a success status.
func (h *ActionItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	deleted, err := h.actionItems.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/action-items", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
