// Package server exposes the webhook, admin, export and observability routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/dispatch"
	"github.com/eiescz/idiomasbot/internal/ports"
)

// Server holds the HTTP dependencies.
type Server struct {
	dispatcher  *dispatch.Dispatcher
	content     *config.Snapshot
	records     ports.RecordStore
	verifyToken string
	adminToken  string
	logger      *slog.Logger
	gatherer    prometheus.Gatherer
}

// New creates the server.
func New(
	dispatcher *dispatch.Dispatcher,
	content *config.Snapshot,
	records ports.RecordStore,
	verifyToken, adminToken string,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Server {
	return &Server{
		dispatcher:  dispatcher,
		content:     content,
		records:     records,
		verifyToken: verifyToken,
		adminToken:  adminToken,
		logger:      logger,
		gatherer:    gatherer,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/webhook", s.handleVerify)
	r.Post("/webhook", s.handleWebhook)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.requireAdminToken)
		admin.Post("/reload", s.handleReload)
		admin.Post("/override", s.handleOverride)
	})

	r.Get("/export/leads.csv", s.handleExportLeads)
	r.Get("/export/enrollments.csv", s.handleExportEnrollments)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"endpoints": []string{
			"/webhook",
			"/healthz",
			"/metrics",
			"/admin/reload",
			"/admin/override",
			"/export/leads.csv",
			"/export/enrollments.csv",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdminToken gates the admin routes on the X-Admin-Token header.
func (s *Server) requireAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin-Token") != s.adminToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no autorizado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
