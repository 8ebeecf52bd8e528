package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitment-portal/internal/api/middleware"
	"recruitment-portal/internal/common/config"
	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/repository"
	submitapplication "recruitment-portal/internal/workers/application/submit-application"
)

const defaultMaxBodyBytes = 1 << 20

type Submitter interface {
	Execute(ctx context.Context, raw map[string]interface{}) (*submitapplication.Output, error)
}

type PositionCatalog interface {
	RecruitmentYear() string
	All() []models.Position
	Summaries() []models.PositionSummary
}

// HealthChecker reports whether a background dependency, such as the NATS
// notification connection, is usable.
type HealthChecker interface {
	HealthCheck() error
}

type Options struct {
	Submitter Submitter
	Catalog   PositionCatalog
	Store     repository.ApplicationStore
	Admin     config.AdminConfig
	Version   string
	// MaxBodyBytes caps request bodies; zero means 1 MiB.
	MaxBodyBytes int64
	// Limiter may be nil, which disables rate limiting.
	Limiter  *middleware.RedisLimiter
	// Queue is checked by /ready when set.
	Queue    HealthChecker
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

type Server struct {
	submitter Submitter
	catalog   PositionCatalog
	store     repository.ApplicationStore
	admin     config.AdminConfig
	version   string
	maxBody   int64
	limiter   *middleware.RedisLimiter
	queue     HealthChecker
	gatherer  prometheus.Gatherer
	validate  *validator.Validate
	errs      *apperrors.ErrorHandler
	now       func() time.Time
	logger    logger.Logger
}

func NewServer(opts Options) *Server {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	log := logger.ForComponent(opts.Logger, "api")
	return &Server{
		submitter: opts.Submitter,
		catalog:   opts.Catalog,
		store:     opts.Store,
		admin:     opts.Admin,
		version:   opts.Version,
		maxBody:   maxBody,
		limiter:   opts.Limiter,
		queue:     opts.Queue,
		gatherer:  gatherer,
		validate:  validator.New(),
		errs:      apperrors.NewErrorHandler(log),
		now:       time.Now,
		logger:    log,
	}
}

// Router serves every endpoint at the root and again under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.routes(r)
	r.Route("/api", s.routes)
	return r
}

func (s *Server) routes(r chi.Router) {
	r.MethodNotAllowed(s.handleMethodNotAllowed)
	r.NotFound(s.handleNotFound)

	r.Get("/", s.handleInfo)
	r.Get("/get-positions", s.handleGetPositions)
	r.With(middleware.RateLimit(s.limiter, "submit", s.errs)).
		Post("/submit-application", s.handleSubmit)

	r.Route("/admin", func(r chi.Router) {
		r.MethodNotAllowed(s.handleMethodNotAllowed)
		r.With(middleware.RateLimit(s.limiter, "login", s.errs)).
			Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(s.errs))
			r.Get("/get-applications", s.handleGetApplications)
			r.Patch("/applications/{applicationId}/status", s.handleUpdateStatus)
		})
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusMethodNotAllowed, apperrors.Response{
		Success: false,
		Message: "Method not allowed",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusNotFound, apperrors.Response{
		Success: false,
		Message: "Not found",
	})
}
