package postgres

import (
	"context"
	"fmt"

	"infosec-jobs/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// UpsertCompany writes one company record keyed by organization_url. The
// enrichment data always overwrites the previous row; created_at and
// jobs_count survive the conflict.
func (s *Store) UpsertCompany(ctx context.Context, company *models.Company) error {
	// using plain SQL via InsertBySql for ON CONFLICT
	query := `
		INSERT INTO companies (
			id, organization_url, name, slug, about, long_description,
			founded, industries, socials, logo, size, website, headquarters
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (organization_url) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			about = EXCLUDED.about,
			long_description = EXCLUDED.long_description,
			founded = EXCLUDED.founded,
			industries = EXCLUDED.industries,
			socials = EXCLUDED.socials,
			logo = EXCLUDED.logo,
			size = EXCLUDED.size,
			website = EXCLUDED.website,
			headquarters = EXCLUDED.headquarters,
			updated_at = NOW()
	`

	_, err := s.sess.
		InsertBySql(query,
			company.ID,
			company.OrganizationURL,
			company.Name,
			company.Slug,
			company.About,
			company.LongDescription,
			company.Founded,
			company.Industries,
			company.Socials,
			company.Logo,
			company.Size,
			company.Website,
			company.Headquarters,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to upsert company",
			zap.String("organization_url", company.OrganizationURL),
			zap.Error(err),
		)
		return fmt.Errorf("upsert company: %w", err)
	}

	return nil
}

// RefreshJobsCount recomputes the derived jobs_count aggregate from the jobs
// table. A no-op when no company row exists for the organization yet.
func (s *Store) RefreshJobsCount(ctx context.Context, organizationURL string) error {
	query := `
		UPDATE companies
		SET jobs_count = (
			SELECT COUNT(*) FROM jobs WHERE jobs.organization_url = companies.organization_url
		),
		updated_at = NOW()
		WHERE organization_url = $1
	`

	_, err := s.sess.
		UpdateBySql(query, organizationURL).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to refresh jobs count",
			zap.String("organization_url", organizationURL),
			zap.Error(err),
		)
		return fmt.Errorf("refresh jobs count: %w", err)
	}

	return nil
}

func (s *Store) GetCompany(ctx context.Context, organizationURL string) (*models.Company, error) {
	var company models.Company

	err := s.sess.
		Select("*").
		From("companies").
		Where("organization_url = ?", organizationURL).
		LoadOneContext(ctx, &company)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get company",
			zap.String("organization_url", organizationURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &company, nil
}
