package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	JobsListCacheTTL   = 5 * time.Minute
	SyncReportCacheTTL = 24 * time.Hour
)

func JobsListKey(limit, offset int) string {
	return fmt.Sprintf("jobs:list:%d:%d", limit, offset)
}

func SyncReportKey() string {
	return "sync:last_report"
}

func (c *Cache) GetJobsList(ctx context.Context, limit, offset int, dest interface{}) error {
	return c.Get(ctx, JobsListKey(limit, offset), dest)
}

func (c *Cache) SetJobsList(ctx context.Context, limit, offset int, jobs interface{}) error {
	return c.Set(ctx, JobsListKey(limit, offset), jobs, JobsListCacheTTL)
}

// InvalidateJobsLists drops every cached jobs page after a sync run.
func (c *Cache) InvalidateJobsLists(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "jobs:list:*").Result()
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}
	for _, key := range keys {
		if err := c.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// RecordSyncSuccess is the shared post-sync hook: drops every cached jobs
// page and stores the run report. Both trigger surfaces (cron and HTTP) call
// it so a sync always leaves the cache in the same state.
func (c *Cache) RecordSyncSuccess(ctx context.Context, report interface{}) error {
	if err := c.InvalidateJobsLists(ctx); err != nil {
		return err
	}
	return c.SetSyncReport(ctx, report)
}

func (c *Cache) SetSyncReport(ctx context.Context, report interface{}) error {
	return c.Set(ctx, SyncReportKey(), report, SyncReportCacheTTL)
}

func (c *Cache) GetSyncReport(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, SyncReportKey(), dest)
}
