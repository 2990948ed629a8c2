// Package scheduler wires up the cron job that periodically runs a full
// listings sync.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"infosec-jobs/internal/notify"
	"infosec-jobs/internal/pipeline"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const syncTimeout = 30 * time.Minute

// SyncRunner is the one operation the scheduler drives.
type SyncRunner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// ReportCache is the post-sync hook: invalidate the jobs-list cache and store
// the run report.
type ReportCache interface {
	RecordSyncSuccess(ctx context.Context, report interface{}) error
}

// Scheduler wraps robfig/cron and manages the periodic sync.
type Scheduler struct {
	cron     *cron.Cron
	syncer   SyncRunner
	notifier *notify.Notifier
	cache    ReportCache
	spec     string
	logger   *zap.Logger
}

func New(syncer SyncRunner, notifier *notify.Notifier, cache ReportCache, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		syncer:   syncer,
		notifier: notifier,
		cache:    cache,
		spec:     spec,
		logger:   logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runSync)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("sync scheduler started", zap.String("spec", s.spec))

	return nil
}

// Stop halts the scheduler; an in-flight sync finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("sync scheduler stopped")
}

func (s *Scheduler) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	s.logger.Info("scheduled sync started")

	report, err := s.syncer.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled sync failed", zap.Error(err))
		s.notifier.SyncFailed(err)
		return
	}

	s.logger.Info("scheduled sync finished",
		zap.Int("fetched", report.Fetched),
		zap.Int("filtered", report.Filtered),
		zap.Int("upserted", report.Upserted),
	)

	if s.cache != nil {
		if err := s.cache.RecordSyncSuccess(ctx, report); err != nil {
			s.logger.Warn("post-sync cache update failed", zap.Error(err))
		}
	}

	s.notifier.SyncFinished(report)
}
