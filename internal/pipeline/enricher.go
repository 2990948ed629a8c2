package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"infosec-jobs/internal/api/companydata"
	"infosec-jobs/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type companyAPI interface {
	Enabled() bool
	CompanyByDomain(ctx context.Context, domain string) (*companydata.Company, error)
}

// CompanyStore persists company records keyed by organization URL.
type CompanyStore interface {
	GetCompany(ctx context.Context, organizationURL string) (*models.Company, error)
	UpsertCompany(ctx context.Context, company *models.Company) error
}

// Enricher fills a company record from the company-data API and upserts it.
// An enrichment-call failure is non-fatal: the record is still written with
// the locally-known fields.
type Enricher struct {
	api    companyAPI
	store  CompanyStore
	logger *zap.Logger
}

func NewEnricher(api companyAPI, store CompanyStore, logger *zap.Logger) *Enricher {
	return &Enricher{api: api, store: store, logger: logger}
}

// Enrich looks up the organization's domain and upserts the company record.
// Skipped entirely when the organization URL is absent or the enrichment
// credential is not configured.
func (e *Enricher) Enrich(ctx context.Context, organizationURL, name, domain string, slug *string) error {
	if organizationURL == "" || e.api == nil || !e.api.Enabled() {
		return nil
	}

	company := &models.Company{
		ID:              uuid.New(),
		OrganizationURL: organizationURL,
		Name:            name,
		Slug:            slug,
	}

	data, err := e.api.CompanyByDomain(ctx, domain)
	if err != nil {
		e.logger.Warn("company data lookup failed, keeping local fields",
			zap.String("domain", domain),
			zap.Error(err),
		)

		// A record enriched on an earlier run must not be overwritten with a
		// bare local-only one.
		existing, getErr := e.store.GetCompany(ctx, organizationURL)
		if getErr == nil && existing != nil {
			return nil
		}

		return e.store.UpsertCompany(ctx, company)
	}

	if data != nil {
		applyCompanyData(company, data)
	}

	return e.store.UpsertCompany(ctx, company)
}

func applyCompanyData(company *models.Company, data *companydata.Company) {
	if data.Name != nil && strings.TrimSpace(*data.Name) != "" {
		company.Name = strings.TrimSpace(*data.Name)
	}
	company.About = data.Description
	company.LongDescription = data.LongDescription
	company.Founded = data.FoundedYear
	company.Size = data.TotalEmployees
	company.Logo = data.Logo
	company.Website = data.Website

	if len(data.Industries) > 0 {
		if raw, err := json.Marshal(data.Industries); err == nil {
			company.Industries = models.RawJSON(raw)
		}
	}
	if len(data.Socials) > 0 {
		if raw, err := json.Marshal(data.Socials); err == nil {
			company.Socials = models.RawJSON(raw)
		}
	}

	if hq := joinLocation(data.Location); hq != "" {
		company.Headquarters = &hq
	}
}

// joinLocation assembles the nested address parts into one human-readable
// comma-joined string, skipping absent parts.
func joinLocation(location *companydata.Location) string {
	if location == nil {
		return ""
	}

	parts := make([]string, 0, 4)
	for _, part := range []*string{location.Address, location.City, location.State, location.Country} {
		if part == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, ", ")
}
