package handlers

import (
	"errors"
	"net/http"
	"strings"

	"itrack/config"
	"itrack/core/auth"
	"itrack/core/rbac"
	"itrack/core/store"
	"itrack/core/utils"
)

type AuthHandler struct {
	cfg            *config.AppConfig
	users          store.UsersStore
	sessions       store.SessionStore
	sessionManager *auth.SessionManager
	renderer       Renderer
	logger         *utils.Logger
	clientIP       func(*http.Request) string
}

func NewAuthHandler(cfg *config.AppConfig, users store.UsersStore, sessions store.SessionStore, sm *auth.SessionManager, renderer Renderer, logger *utils.Logger, clientIP func(*http.Request) string) *AuthHandler {
	if clientIP == nil {
		clientIP = func(r *http.Request) string { return r.RemoteAddr }
	}
	return &AuthHandler{cfg: cfg, users: users, sessions: sessions, sessionManager: sm, renderer: renderer, logger: logger, clientIP: clientIP}
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "index", map[string]any{"title": "Home"})
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "dashboard", nil)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "login", map[string]any{"error": nil})
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.Render(w, r, "auth/register", map[string]any{"title": "Register", "roles": rbac.Roles()})
}

// Login verifies credentials and issues a session cookie. Unknown usernames
// and wrong passwords produce the same response so the endpoint cannot be
// used to probe for accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credentials
	if err := decodeJSON(r, &cred); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	user, err := h.users.FindByUsername(r.Context(), cred.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Errorf("login lookup: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		h.logger.Printf("AUTH login failed user=%s", cred.Username)
		http.Error(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}
	if !auth.VerifyPassword(cred.Password, h.cfg.Pepper, user.PasswordHash) {
		h.logger.Printf("AUTH login failed user=%s", cred.Username)
		http.Error(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}
	sess, err := h.sessionManager.Create(r.Context(), user, h.clientIP(r), r.UserAgent())
	if err != nil {
		h.logger.Errorf("login session create for %s: %v", cred.Username, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	h.logger.Printf("AUTH login ok user=%s", user.Username)
	if wantsHTML(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"id": user.ID, "username": user.Username, "role": user.Role},
	})
}

type registerPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" || payload.Role == "" {
		http.Error(w, auth.ErrMissingFields.Error(), http.StatusBadRequest)
		return
	}
	if !rbac.ValidRole(payload.Role) {
		http.Error(w, auth.ErrInvalidRole.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidateUsername(payload.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidatePassword(payload.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	hash, err := auth.HashPassword(payload.Password, h.cfg.Pepper)
	if err != nil {
		h.logger.Errorf("register hash: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	user := &store.User{Username: payload.Username, PasswordHash: hash, Role: payload.Role}
	id, err := h.users.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			http.Error(w, "username already exists", http.StatusBadRequest)
			return
		}
		writeStoreError(w, h.logger, err)
		return
	}
	h.logger.Printf("AUTH registered user=%s role=%s", user.Username, user.Role)
	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// Logout destroys the session synchronously and clears the cookie. It is safe
// to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		_ = h.sessionManager.Delete(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) AdminPanel(w http.ResponseWriter, r *http.Request) {
	sr := auth.SessionFromContext(r.Context())
	_ = h.renderer.Render(w, r, "admin", map[string]any{"username": sr.Username})
}
