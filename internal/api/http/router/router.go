package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/portfolio-server/internal/api/http/handler"
	"github.com/dtroode/portfolio-server/internal/api/http/middleware"
	"github.com/dtroode/portfolio-server/internal/logger"
)

// Router builds the public HTTP API.
type Router struct {
	public      *handler.Public
	events      *handler.Events
	pinger      handler.Pinger
	corsOrigins []string
	logger      *logger.Logger
}

// New creates new HTTP Router instance.
func New(public *handler.Public, events *handler.Events, pinger handler.Pinger, corsOrigins []string, logger *logger.Logger) *Router {
	return &Router{
		public:      public,
		events:      events,
		pinger:      pinger,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// Register returns the configured handler.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.NewLogging(rt.logger).Handle)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.corsOrigins))

	r.Get("/healthz", handler.Health(rt.pinger, rt.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", rt.public.GetProfile)
		r.Get("/skills", rt.public.ListSkills)
		r.Get("/projects", rt.public.ListProjects)
		r.Get("/projects/{id}", rt.public.GetProject)
		r.Get("/events", rt.events.Stream)
	})

	return r
}
