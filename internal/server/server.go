package server

import (
	"context"

	"infosec-jobs/internal/models"
	"infosec-jobs/internal/pipeline"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobReader is the read side of the jobs store.
type JobReader interface {
	ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error)
	CountJobs(ctx context.Context) (int, error)
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Ping(ctx context.Context) error
}

// Cache is the read-API cache plus the shared post-sync hook.
type Cache interface {
	GetJobsList(ctx context.Context, limit, offset int, dest interface{}) error
	SetJobsList(ctx context.Context, limit, offset int, jobs interface{}) error
	GetSyncReport(ctx context.Context, dest interface{}) error
	RecordSyncSuccess(ctx context.Context, report interface{}) error
}

// SyncRunner triggers one sync pass on demand.
type SyncRunner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

type Server struct {
	app    *fiber.App
	store  JobReader
	cache  Cache
	syncer SyncRunner
	logger *zap.Logger
}

func New(store JobReader, cache Cache, syncer SyncRunner, logger *zap.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName: "infosec-jobs",
		}),
		store:  store,
		cache:  cache,
		syncer: syncer,
		logger: logger,
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	v1 := s.app.Group("/api/v1")
	v1.Get("/jobs", s.handleListJobs)
	v1.Get("/jobs/:id", s.handleGetJob)
	v1.Post("/sync", s.handleSync)
	v1.Get("/sync/report", s.handleSyncReport)
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
