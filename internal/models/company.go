package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Company is keyed by OrganizationURL; JobsCount is a derived aggregate
// recomputed after every sync batch that touches the organization.
type Company struct {
	ID              uuid.UUID `db:"id" json:"id"`
	OrganizationURL string    `db:"organization_url" json:"organization_url"`
	Name            string    `db:"name" json:"name"`
	Slug            *string   `db:"slug" json:"slug"`
	About           *string   `db:"about" json:"about"`
	LongDescription *string   `db:"long_description" json:"long_description"`
	Founded         *int      `db:"founded" json:"founded"`
	Industries      RawJSON   `db:"industries" json:"industries"`
	Socials         RawJSON   `db:"socials" json:"socials"`
	Logo            *string   `db:"logo" json:"logo"`
	Size            *string   `db:"size" json:"size"`
	Website         *string   `db:"website" json:"website"`
	Headquarters    *string   `db:"headquarters" json:"headquarters"`
	JobsCount       int       `db:"jobs_count" json:"jobs_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type RawJSON json.RawMessage

func (r RawJSON) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.RawMessage(r).MarshalJSON()
}

func (r *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	*r = RawJSON(bytes)
	return nil
}
