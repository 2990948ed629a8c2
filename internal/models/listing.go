package models

// RawListing is one job posting as returned by the aggregation API, before
// normalization. Nothing about the payload is guaranteed: every field may be
// absent and the salary fields in particular arrive in several competing
// shapes, so anything numeric-ish is typed as any and coerced downstream.
type RawListing struct {
	ID               *string  `json:"id"`
	Title            *string  `json:"title"`
	Organization     *string  `json:"organization"`
	OrganizationURL  *string  `json:"organization_url"`
	OrganizationLogo *string  `json:"organization_logo"`
	URL              *string  `json:"url"`
	DescriptionText  *string  `json:"description_text"`
	LocationsDerived []string `json:"locations_derived"`
	RemoteDerived    *bool    `json:"remote_derived"`
	EmploymentType   []string `json:"employment_type"`
	DatePosted       *string  `json:"date_posted"`
	DateCreated      *string  `json:"date_created"`

	// Flat salary fields.
	MinSalary      any     `json:"min_salary"`
	MaxSalary      any     `json:"max_salary"`
	Salary         any     `json:"salary"`
	SalaryCurrency *string `json:"salary_currency"`
	SalaryPeriod   *string `json:"salary_period"`

	// Structured salary object (schema.org MonetaryAmount shape).
	SalaryRaw *SalaryRaw `json:"salary_raw"`

	// AI-derived salary fields, present when the source's AI enrichment
	// flag is on.
	AISalaryCurrency *string `json:"ai_salary_currency"`
	AISalaryValue    any     `json:"ai_salary_value"`
	AISalaryMin      any     `json:"ai_salary_minvalue"`
	AISalaryMax      any     `json:"ai_salary_maxvalue"`
	AISalaryUnit     *string `json:"ai_salary_unittext"`
}

type SalaryRaw struct {
	Currency *string      `json:"currency"`
	Value    *SalaryValue `json:"value"`
}

type SalaryValue struct {
	MinValue any     `json:"minValue"`
	MaxValue any     `json:"maxValue"`
	Value    any     `json:"value"`
	UnitText *string `json:"unitText"`
}
