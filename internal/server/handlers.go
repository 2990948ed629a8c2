package server

import (
	"errors"
	"strconv"
	"time"

	"infosec-jobs/internal/api/activejobs"
	"infosec-jobs/internal/models"
	"infosec-jobs/internal/pipeline"
	"infosec-jobs/internal/storage/redis"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (s *Server) handleHealth(c fiber.Ctx) error {
	if err := s.store.Ping(c.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		return respondError(c, fiber.StatusServiceUnavailable, "database unreachable")
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// jobsPage is the cached unit for one list request: the page and the total
// count travel together so a cache hit never touches the database.
type jobsPage struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
}

func (s *Server) handleListJobs(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > maxListLimit {
		return respondError(c, fiber.StatusBadRequest, "invalid limit")
	}

	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return respondError(c, fiber.StatusBadRequest, "invalid offset")
	}

	ctx := c.Context()

	if s.cache != nil {
		var cached jobsPage
		if err := s.cache.GetJobsList(ctx, limit, offset, &cached); err == nil {
			return c.JSON(fiber.Map{"jobs": cached.Jobs, "total": cached.Total, "cached": true})
		}
	}

	jobs, err := s.store.ListJobs(ctx, limit, offset)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to list jobs")
	}

	total, err := s.store.CountJobs(ctx)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to count jobs")
	}

	if s.cache != nil {
		if err := s.cache.SetJobsList(ctx, limit, offset, jobsPage{Jobs: jobs, Total: total}); err != nil {
			s.logger.Warn("jobs list cache write failed", zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{"jobs": jobs, "total": total, "cached": false})
}

func (s *Server) handleGetJob(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := s.store.GetJob(c.Context(), id)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return respondError(c, fiber.StatusNotFound, "job not found")
	}

	return c.JSON(job)
}

// handleSync runs one sync pass synchronously. Upstream ingestion failures
// pass their status and body through so the caller sees what the source said;
// everything else maps to a generic 500.
func (s *Server) handleSync(c fiber.Ctx) error {
	report, err := s.syncer.Run(c.Context())
	if err != nil {
		s.logger.Error("manual sync failed", zap.Error(err))

		var apiErr *activejobs.APIError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.StatusCode).JSON(fiber.Map{
				"error":    "ingestion source error",
				"upstream": apiErr.Body,
			})
		}

		return respondError(c, fiber.StatusInternalServerError, "sync failed")
	}

	if s.cache != nil {
		if err := s.cache.RecordSyncSuccess(c.Context(), report); err != nil {
			s.logger.Warn("post-sync cache update failed", zap.Error(err))
		}
	}

	return c.JSON(report)
}

// handleSyncReport serves the report of the most recent successful sync,
// whichever surface triggered it.
func (s *Server) handleSyncReport(c fiber.Ctx) error {
	if s.cache == nil {
		return respondError(c, fiber.StatusNotFound, "no sync report recorded")
	}

	var report pipeline.Report
	if err := s.cache.GetSyncReport(c.Context(), &report); err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return respondError(c, fiber.StatusNotFound, "no sync report recorded")
		}
		return respondError(c, fiber.StatusInternalServerError, "failed to load sync report")
	}

	return c.JSON(report)
}

func respondError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func queryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
