package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"infosec-jobs/internal/api/activejobs"
	"infosec-jobs/internal/models"
	"infosec-jobs/internal/pipeline"
	"infosec-jobs/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	jobs    []models.Job
	job     *models.Job
	pingErr error
	listErr error
}

func (f *fakeReader) ListJobs(context.Context, int, int) ([]models.Job, error) {
	return f.jobs, f.listErr
}

func (f *fakeReader) CountJobs(context.Context) (int, error) {
	return len(f.jobs), nil
}

func (f *fakeReader) GetJob(context.Context, uuid.UUID) (*models.Job, error) {
	return f.job, nil
}

func (f *fakeReader) Ping(context.Context) error { return f.pingErr }

type fakeSyncer struct {
	report *pipeline.Report
	err    error
}

func (f *fakeSyncer) Run(context.Context) (*pipeline.Report, error) {
	return f.report, f.err
}

type fakeCache struct {
	recorded []interface{}
	report   *pipeline.Report
}

func (f *fakeCache) GetJobsList(context.Context, int, int, interface{}) error {
	return redis.ErrCacheMiss
}

func (f *fakeCache) SetJobsList(context.Context, int, int, interface{}) error { return nil }

func (f *fakeCache) GetSyncReport(_ context.Context, dest interface{}) error {
	if f.report == nil {
		return redis.ErrCacheMiss
	}
	data, err := json.Marshal(f.report)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) RecordSyncSuccess(_ context.Context, report interface{}) error {
	f.recorded = append(f.recorded, report)
	return nil
}

func newTestServer(store *fakeReader, syncer *fakeSyncer) *Server {
	return New(store, nil, syncer, zap.NewNop())
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeReader{}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleHealth_DBDown(t *testing.T) {
	srv := newTestServer(&fakeReader{pingErr: errors.New("down")}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleListJobs(t *testing.T) {
	store := &fakeReader{jobs: []models.Job{
		{ID: uuid.New(), Title: "Security Engineer", Company: "Acme"},
	}}
	srv := newTestServer(store, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Jobs   []models.Job `json:"jobs"`
		Total  int          `json:"total"`
		Cached bool         `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Jobs, 1)
	assert.Equal(t, "Security Engineer", payload.Jobs[0].Title)
	assert.Equal(t, 1, payload.Total)
	assert.False(t, payload.Cached)
}

func TestHandleListJobs_InvalidLimit(t *testing.T) {
	srv := newTestServer(&fakeReader{}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs?limit=0", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetJob_BadID(t *testing.T) {
	srv := newTestServer(&fakeReader{}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetJob_NotFound(t *testing.T) {
	srv := newTestServer(&fakeReader{}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleGetJob_Found(t *testing.T) {
	job := &models.Job{ID: uuid.New(), Title: "SOC Analyst"}
	srv := newTestServer(&fakeReader{job: job}, &fakeSyncer{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/jobs/"+job.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleSync_ReturnsReport(t *testing.T) {
	syncer := &fakeSyncer{report: &pipeline.Report{Fetched: 10, Filtered: 4, Upserted: 4}}
	srv := newTestServer(&fakeReader{}, syncer)

	resp, err := srv.app.Test(httptest.NewRequest("POST", "/api/v1/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 10, report.Fetched)
	assert.Equal(t, 4, report.Upserted)
}

func TestHandleSync_RecordsReportInCache(t *testing.T) {
	syncer := &fakeSyncer{report: &pipeline.Report{Fetched: 2, Filtered: 1, Upserted: 1}}
	cache := &fakeCache{}
	srv := New(&fakeReader{}, cache, syncer, zap.NewNop())

	resp, err := srv.app.Test(httptest.NewRequest("POST", "/api/v1/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	if assert.Len(t, cache.recorded, 1) {
		assert.Equal(t, syncer.report, cache.recorded[0])
	}
}

func TestHandleSyncReport(t *testing.T) {
	cache := &fakeCache{report: &pipeline.Report{Fetched: 7, Filtered: 2, Upserted: 2}}
	srv := New(&fakeReader{}, cache, &fakeSyncer{}, zap.NewNop())

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/sync/report", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 7, report.Fetched)
	assert.Equal(t, 2, report.Upserted)
}

func TestHandleSyncReport_NoneRecorded(t *testing.T) {
	srv := New(&fakeReader{}, &fakeCache{}, &fakeSyncer{}, zap.NewNop())

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/v1/sync/report", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleSync_UpstreamErrorPassthrough(t *testing.T) {
	syncer := &fakeSyncer{err: &activejobs.APIError{StatusCode: 429, Body: "quota exceeded"}}
	srv := newTestServer(&fakeReader{}, syncer)

	resp, err := srv.app.Test(httptest.NewRequest("POST", "/api/v1/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "quota exceeded")
}

func TestHandleSync_GenericError(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("db unavailable")}
	srv := newTestServer(&fakeReader{}, syncer)

	resp, err := srv.app.Test(httptest.NewRequest("POST", "/api/v1/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "db unavailable", "internal detail must not leak")
}
