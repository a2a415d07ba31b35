package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"itrack/api/handlers"
	"itrack/config"
	"itrack/core/auth"
	"itrack/core/catalog"
	"itrack/core/ratelimit"
	"itrack/core/rbac"
	"itrack/core/store"
	"itrack/core/utils"
)

type ServerDeps struct {
	Users          store.UsersStore
	Sessions       store.SessionStore
	Incidents      store.IncidentsStore
	ActionItems    store.ActionItemsStore
	Reports        store.ReportsStore
	Catalog        *catalog.Catalog
	Policy         *rbac.Policy
	SessionManager *auth.SessionManager
	Limiter        *ratelimit.Limiter
	Renderer       handlers.Renderer
}

type Server struct {
	cfg            *config.AppConfig
	logger         *utils.Logger
	users          store.UsersStore
	sessions       store.SessionStore
	incidents      store.IncidentsStore
	actionItems    store.ActionItemsStore
	reports        store.ReportsStore
	catalog        *catalog.Catalog
	policy         *rbac.Policy
	sessionManager *auth.SessionManager
	limiter        *ratelimit.Limiter
	renderer       handlers.Renderer

	router          chi.Router
	activityTracker *sessionActivity
	startedAt       time.Time
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = handlers.NewJSONRenderer()
	}
	s := &Server{
		cfg:             cfg,
		logger:          logger,
		users:           deps.Users,
		sessions:        deps.Sessions,
		incidents:       deps.Incidents,
		actionItems:     deps.ActionItems,
		reports:         deps.Reports,
		catalog:         deps.Catalog,
		policy:          deps.Policy,
		sessionManager:  deps.SessionManager,
		limiter:         deps.Limiter,
		renderer:        renderer,
		activityTracker: newSessionActivity(),
		startedAt:       time.Now().UTC(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("api: listening on %s", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
