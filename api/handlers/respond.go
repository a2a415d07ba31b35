package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"itrack/core/store"
	"itrack/core/utils"
)

const SessionCookieName = "itrack_session"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeStoreError translates repository failures into HTTP statuses. Internal
// errors are logged and masked; everything client-caused carries its message.
func writeStoreError(w http.ResponseWriter, logger *utils.Logger, err error) {
	switch {
	case store.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrForeignKey):
		http.Error(w, "referenced incident does not exist", http.StatusBadRequest)
	case errors.Is(err, store.ErrDuplicate):
		http.Error(w, "already exists", http.StatusBadRequest)
	default:
		logger.Errorf("store error: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

// wantsHTML reports whether the client asked for a page rather than JSON;
// form-driven routes redirect on success for these callers.
func wantsHTML(r *http.Request) bool {
	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.Contains(accept, "text/html")
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
