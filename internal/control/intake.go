package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/candidhq/intake/internal/auth"
	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/infra/blob"
	redisclient "github.com/candidhq/intake/internal/infra/redis"
	"github.com/candidhq/intake/internal/infra/storage"
	"github.com/candidhq/intake/internal/infra/storage/memory"
	"github.com/candidhq/intake/internal/infra/storage/postgres"
	"github.com/candidhq/intake/internal/intake/countries"
	"github.com/candidhq/intake/internal/notify"
	"github.com/candidhq/intake/internal/server"
)

// Intake is the main application struct that manages the service lifecycle.
type Intake struct {
	cfg         config.AppConfig
	repo        storage.ApplicationRepository
	db          *postgres.DB
	redisClient *redisclient.Client
	httpServer  *http.Server
	log         *slog.Logger
}

// New creates an Intake instance with all dependencies initialized.
func New(cfg config.AppConfig) (*Intake, error) {
	// 1. Initialize Storage
	var repo storage.ApplicationRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations. Goose needs the raw *sql.DB that sqlx wraps.
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		repo = postgres.NewApplicationRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		repo = memory.NewApplicationRepo(memory.NewMemoryStorage())
		slog.Info("Using Memory storage")
	}

	// 2. Attachment store
	blobDir := cfg.Blob.Dir
	if blobDir == "" {
		blobDir = "data/attachments"
	}
	blobs, err := blob.NewDiskStore(blobDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init blob store: %w", err)
	}

	// 3. Optional Redis duplicate guard
	var redisClient *redisclient.Client
	var dedupe server.DedupeGuard
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, duplicate guard disabled", "error", err)
		} else {
			dedupe = redisClient
		}
	}

	// 4. Mail notifications
	var mailer notify.Notifier
	m := notify.NewMailer(cfg.SMTP)
	if m.Enabled() {
		mailer = m
	} else {
		slog.Info("SMTP host not configured, mail notifications disabled")
	}

	// 5. HTTP surface
	authSvc := auth.NewService(cfg.Admin)
	srv := server.NewServer(cfg.Server, repo, blobs, countries.NewRegistry(), authSvc, mailer, dedupe)

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Intake{
		cfg:         cfg,
		repo:        repo,
		db:          db,
		redisClient: redisClient,
		httpServer:  httpServer,
		log:         slog.Default(),
	}, nil
}

// Repo exposes the application repository for CLI commands.
func (i *Intake) Repo() storage.ApplicationRepository {
	return i.repo
}

// Start starts the HTTP server in the background.
func (i *Intake) Start(ctx context.Context) error {
	i.log.Info("Intake service listening", "addr", i.httpServer.Addr)
	go func() {
		if err := i.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			i.log.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the service down.
func (i *Intake) Stop(ctx context.Context) error {
	i.log.Info("Stopping Intake...")

	if err := i.httpServer.Shutdown(ctx); err != nil {
		i.log.Warn("HTTP shutdown failed", "error", err)
	}

	if i.redisClient != nil {
		if err := i.redisClient.Close(); err != nil {
			i.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if i.db != nil {
		if err := i.db.Close(); err != nil {
			return err
		}
	}
	return nil
}
