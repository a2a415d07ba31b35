package handlers

import "net/http"

// Renderer is the view-layer collaborator: it receives a template id and a
// data context and owns everything about markup. The server only decides
// which template and which data.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error
}

// jsonRenderer is the fallback when no real view layer is wired in; it emits
// the template id and context as JSON so the server stays usable headless.
type jsonRenderer struct{}

func NewJSONRenderer() Renderer {
	return jsonRenderer{}
}

func (jsonRenderer) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	payload := map[string]any{"template": name}
	for k, v := range data {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
	return nil
}
