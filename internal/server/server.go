package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    history.Store
	provider *ingest.Provider
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store history.Store, provider *ingest.Provider, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		provider: provider,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Calculation endpoints (API key required)
	s.router.Route("/api/v1/workouts", func(r chi.Router) {
		r.With(APIKeyAuth(s.apiKey)).Post("/calculate", s.handleCalculate)
		r.With(APIKeyAuth(s.apiKey)).Post("/import", s.handleImport)

		r.Get("/", s.handleQueryResults)
		r.Get("/totals", s.handleKindTotals)
		r.Get("/{id}", s.handleGetResult)
	})

	s.router.Get("/api/v1/workout-types", s.handleWorkoutTypes)
	s.router.Handle("/metrics", promhttp.Handler())
}

// MountMCP serves an MCP transport under /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp/*", h)
}
