package scheduler

import (
	"context"
	"errors"
	"testing"

	"infosec-jobs/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRunner struct {
	report *pipeline.Report
	err    error
	calls  int
}

func (f *fakeRunner) Run(context.Context) (*pipeline.Report, error) {
	f.calls++
	return f.report, f.err
}

type fakeReportCache struct {
	recorded []interface{}
	err      error
}

func (f *fakeReportCache) RecordSyncSuccess(_ context.Context, report interface{}) error {
	f.recorded = append(f.recorded, report)
	return f.err
}

func TestRunSync_RecordsReportOnSuccess(t *testing.T) {
	runner := &fakeRunner{report: &pipeline.Report{Fetched: 5, Filtered: 3, Upserted: 3}}
	cache := &fakeReportCache{}

	sched := New(runner, nil, cache, "@daily", zap.NewNop())
	sched.runSync()

	assert.Equal(t, 1, runner.calls)
	// The scheduled surface updates the cache the same way the HTTP one does.
	if assert.Len(t, cache.recorded, 1) {
		assert.Equal(t, runner.report, cache.recorded[0])
	}
}

func TestRunSync_FailureLeavesCacheAlone(t *testing.T) {
	runner := &fakeRunner{err: errors.New("upstream down")}
	cache := &fakeReportCache{}

	sched := New(runner, nil, cache, "@daily", zap.NewNop())
	sched.runSync()

	assert.Empty(t, cache.recorded)
}

func TestRunSync_CacheFailureIsNonFatal(t *testing.T) {
	runner := &fakeRunner{report: &pipeline.Report{}}
	cache := &fakeReportCache{err: errors.New("redis down")}

	sched := New(runner, nil, cache, "@daily", zap.NewNop())

	// Must not panic; a cache write failure is warn-logged only.
	sched.runSync()
	assert.Len(t, cache.recorded, 1)
}
