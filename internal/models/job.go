package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is the canonical persisted shape of a normalized listing.
// (Source, ExternalID) identifies the same logical job across sync runs;
// re-syncing overwrites instead of duplicating.
type Job struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Company          string     `db:"company" json:"company"`
	CompanySlug      *string    `db:"company_slug" json:"company_slug"`
	Slug             string     `db:"slug" json:"slug"`
	Category         *string    `db:"category" json:"category"`
	Location         string     `db:"location" json:"location"`
	IsRemote         bool       `db:"is_remote" json:"is_remote"`
	ApplyURL         string     `db:"apply_url" json:"apply_url"`
	Source           string     `db:"source" json:"source"`
	ExternalID       string     `db:"external_id" json:"external_id"`
	PostedAt         *time.Time `db:"posted_at" json:"posted_at"`
	LastUpdated      *time.Time `db:"last_updated" json:"last_updated"`
	Salary           *string    `db:"salary" json:"salary"`
	JobType          string     `db:"job_type" json:"job_type"`
	Description      *string    `db:"description" json:"description"`
	OrganizationURL  *string    `db:"organization_url" json:"organization_url"`
	OrganizationLogo *string    `db:"organization_logo" json:"organization_logo"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
