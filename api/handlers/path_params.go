package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func urlParamID(r *http.Request, key string) (int64, bool) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		// Fallback for direct handler tests without chi route context.
		segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(segments) > 0 {
			raw = segments[len(segments)-1]
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
