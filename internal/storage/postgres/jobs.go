package postgres

import (
	"context"
	"fmt"
	"strings"

	"infosec-jobs/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const jobColumnCount = 18

// UpsertJobs writes the whole batch in one statement. (source, external_id)
// is the conflict key: a re-synced job overwrites its previous row and keeps
// the original id and created_at. Returns the number of rows written.
func (s *Store) UpsertJobs(ctx context.Context, jobs []*models.Job) (int, error) {
	jobs = dedupeJobs(jobs)
	if len(jobs) == 0 {
		return 0, nil
	}

	var (
		placeholders = make([]string, 0, len(jobs))
		args         = make([]interface{}, 0, len(jobs)*jobColumnCount)
	)

	for i, job := range jobs {
		base := i * jobColumnCount
		marks := make([]string, jobColumnCount)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		args = append(args,
			job.ID,
			job.Title,
			job.Company,
			job.CompanySlug,
			job.Slug,
			job.Category,
			job.Location,
			job.IsRemote,
			job.ApplyURL,
			job.Source,
			job.ExternalID,
			job.PostedAt,
			job.LastUpdated,
			job.Salary,
			job.JobType,
			job.Description,
			job.OrganizationURL,
			job.OrganizationLogo,
		)
	}

	// using plain SQL via InsertBySql for ON CONFLICT
	query := `
		INSERT INTO jobs (
			id, title, company, company_slug, slug, category,
			location, is_remote, apply_url, source, external_id,
			posted_at, last_updated, salary, job_type, description,
			organization_url, organization_logo
		)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (source, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			company_slug = EXCLUDED.company_slug,
			slug = EXCLUDED.slug,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			is_remote = EXCLUDED.is_remote,
			apply_url = EXCLUDED.apply_url,
			posted_at = EXCLUDED.posted_at,
			last_updated = EXCLUDED.last_updated,
			salary = EXCLUDED.salary,
			job_type = EXCLUDED.job_type,
			description = EXCLUDED.description,
			organization_url = EXCLUDED.organization_url,
			organization_logo = EXCLUDED.organization_logo,
			updated_at = NOW()
	`

	result, err := s.sess.
		InsertBySql(query, args...).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to upsert jobs",
			zap.Int("count", len(jobs)),
			zap.Error(err),
		)
		return 0, fmt.Errorf("upsert jobs: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("jobs upserted",
		zap.Int("batch", len(jobs)),
		zap.Int64("rows", rowsAffected),
	)

	return int(rowsAffected), nil
}

// dedupeJobs keeps the last occurrence per (source, external_id). Postgres
// rejects a multi-row INSERT whose ON CONFLICT would update the same row
// twice, so duplicates must never reach the statement.
func dedupeJobs(jobs []*models.Job) []*models.Job {
	index := make(map[string]int, len(jobs))
	out := make([]*models.Job, 0, len(jobs))

	for _, job := range jobs {
		key := job.Source + "\x00" + job.ExternalID
		if i, ok := index[key]; ok {
			out[i] = job
			continue
		}
		index[key] = len(out)
		out = append(out, job)
	}

	return out
}

func (s *Store) ListJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job

	_, err := s.sess.
		Select("*").
		From("jobs").
		OrderBy("posted_at DESC NULLS LAST").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list jobs",
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	if jobs == nil {
		jobs = []models.Job{}
	}

	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job

	err := s.sess.
		Select("*").
		From("jobs").
		Where("id = ?", id).
		LoadOneContext(ctx, &job)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get job",
			zap.String("job_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get job: %w", err)
	}

	return &job, nil
}

func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("jobs").
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count jobs", zap.Error(err))
		return 0, fmt.Errorf("count jobs: %w", err)
	}

	return count, nil
}
