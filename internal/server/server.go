package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/candidhq/intake/internal/auth"
	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/infra/blob"
	"github.com/candidhq/intake/internal/infra/storage"
	"github.com/candidhq/intake/internal/intake/countries"
	"github.com/candidhq/intake/internal/intake/submit"
	"github.com/candidhq/intake/internal/intake/validate"
	"github.com/candidhq/intake/internal/notify"
)

// Server exposes the public intake API and the admin panel API.
type Server struct {
	cfg       config.ServerConfig
	repo      storage.ApplicationRepository
	blobs     blob.Store
	registry  *countries.Registry
	validator *validate.Validator
	specs     []validate.FieldSpec
	authSvc   *auth.Service
	mailer    notify.Notifier
	dedupe    DedupeGuard
	log       *slog.Logger
	engine    *gin.Engine
}

// DedupeGuard is the optional fast-path duplicate check in front of the
// database uniqueness constraint. A false first return means the
// fingerprint was already present.
type DedupeGuard interface {
	MarkSubmission(ctx context.Context, email, position string, ttl time.Duration) (bool, error)
	ClearSubmission(ctx context.Context, email, position string) error
}

// NewServer wires the HTTP surface. mailer and dedupe may be nil.
func NewServer(
	cfg config.ServerConfig,
	repo storage.ApplicationRepository,
	blobs blob.Store,
	registry *countries.Registry,
	authSvc *auth.Service,
	mailer notify.Notifier,
	dedupe DedupeGuard,
) *Server {
	s := &Server{
		cfg:       cfg,
		repo:      repo,
		blobs:     blobs,
		registry:  registry,
		validator: validate.New(registry),
		specs:     submit.DefaultFieldSpecs(),
		authSvc:   authSvc,
		mailer:    mailer,
		dedupe:    dedupe,
		log:       slog.Default().With("component", "server"),
	}
	s.engine = s.buildRouter()
	return s
}

// Handler returns the root HTTP handler, for tests and the control loop.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/applications", s.handleSubmit)
		api.GET("/countries", s.handleCountries)

		admin := api.Group("/admin")
		admin.POST("/login", s.handleLogin)

		authed := admin.Group("")
		authed.Use(s.requireAdmin())
		{
			authed.GET("/applications", s.handleList)
			authed.GET("/applications/:id", s.handleGet)
			authed.PATCH("/applications/:id/status", s.handleUpdateStatus)
			authed.GET("/applications/export", s.handleExport)
		}
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
