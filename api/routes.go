package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"itrack/api/handlers"
	"itrack/core/rbac"
)

type routeHandlers struct {
	auth        *handlers.AuthHandler
	incidents   *handlers.IncidentsHandler
	actionItems *handlers.ActionItemsHandler
	reports     *handlers.ReportsHandler
	health      *handlers.HealthHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		auth:        handlers.NewAuthHandler(s.cfg, s.users, s.sessions, s.sessionManager, s.renderer, s.logger, s.clientIP),
		incidents:   handlers.NewIncidentsHandler(s.incidents, s.actionItems, s.catalog, s.renderer, s.logger),
		actionItems: handlers.NewActionItemsHandler(s.actionItems, s.catalog, s.renderer, s.logger),
		reports:     handlers.NewReportsHandler(s.reports, s.catalog, s.logger),
		health:      handlers.NewHealthHandler(s.startedAt),
	}
}

func (s *Server) buildRouter() chi.Router {
	h := s.newRouteHandlers()
	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.rateLimitMiddleware)
	r.Use(s.loggingMiddleware)

	require := s.requirePermission

	// Public surface: no session required.
	r.MethodFunc(http.MethodGet, "/", h.auth.Home)
	r.MethodFunc(http.MethodGet, "/login", h.auth.LoginPage)
	r.MethodFunc(http.MethodPost, "/login", h.auth.Login)
	r.MethodFunc(http.MethodGet, "/register", h.auth.RegisterPage)
	r.MethodFunc(http.MethodPost, "/register", h.auth.Register)
	r.MethodFunc(http.MethodGet, "/logout", h.auth.Logout)
	r.MethodFunc(http.MethodGet, "/health", h.health.Health)

	r.MethodFunc(http.MethodGet, "/dashboard", s.withSession(h.auth.Dashboard))
	r.MethodFunc(http.MethodGet, "/admin", s.withSession(require(rbac.PermAdminPanel)(h.auth.AdminPanel)))

	r.MethodFunc(http.MethodGet, "/incidents", s.withSession(require(rbac.PermIncidentsView)(h.incidents.List)))
	r.MethodFunc(http.MethodGet, "/incidents/create", s.withSession(require(rbac.PermIncidentsManage)(h.incidents.CreatePage)))
	r.MethodFunc(http.MethodPost, "/incidents/create", s.withSession(require(rbac.PermIncidentsManage)(h.incidents.Create)))
	r.MethodFunc(http.MethodGet, "/incidents/edit/{id}", s.withSession(require(rbac.PermIncidentsManage)(h.incidents.EditPage)))
	r.MethodFunc(http.MethodPost, "/incidents/edit/{id}", s.withSession(require(rbac.PermIncidentsManage)(h.incidents.Edit)))
	r.MethodFunc(http.MethodGet, "/incidents/view/{id}", s.withSession(require(rbac.PermIncidentsView)(h.incidents.View)))

	r.MethodFunc(http.MethodGet, "/action-items", s.withSession(require(rbac.PermActionItemsView)(h.actionItems.List)))
	r.MethodFunc(http.MethodPost, "/action-items", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.Create)))
	r.MethodFunc(http.MethodGet, "/action-items/create", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.CreatePage)))
	r.MethodFunc(http.MethodPost, "/action-items/create", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.CreateForIncident)))
	r.MethodFunc(http.MethodGet, "/action-items/view/{id}", s.withSession(require(rbac.PermActionItemsView)(h.actionItems.View)))
	r.MethodFunc(http.MethodGet, "/action-items/edit/{id}", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.EditPage)))
	r.MethodFunc(http.MethodPost, "/action-items/edit/{id}", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.Edit)))
	r.MethodFunc(http.MethodPost, "/action-items/delete/{id}", s.withSession(require(rbac.PermActionItemsManage)(h.actionItems.Delete)))

	r.MethodFunc(http.MethodGet, "/api/incidents", s.withSession(require(rbac.PermReportsView)(h.reports.IncidentsByMonth)))
	r.MethodFunc(http.MethodGet, "/api/incidents/root-cause", s.withSession(require(rbac.PermReportsView)(h.reports.IncidentsByRootCause)))
	r.MethodFunc(http.MethodGet, "/api/incidents/status", s.withSession(require(rbac.PermReportsView)(h.reports.ActionItemsByStatus)))
	r.MethodFunc(http.MethodGet, "/api/action-items/assignee", s.withSession(require(rbac.PermReportsView)(h.reports.ActionItemsByAssignee)))
	r.MethodFunc(http.MethodGet, "/api/root-causes", s.withSession(require(rbac.PermReportsView)(h.reports.RootCauses)))
	r.MethodFunc(http.MethodGet, "/api/incident-statuses", s.withSession(require(rbac.PermReportsView)(h.reports.IncidentStatuses)))

	return r
}
