package pipeline

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"infosec-jobs/internal/classify"
	"infosec-jobs/internal/models"
	"infosec-jobs/internal/ratelimit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLen       = 255
	maxCompanyLen     = 255
	maxDescriptionLen = 500

	externalIDSuffixLen = 8

	defaultLocation = "Remote"
	defaultJobType  = "Full-Time"
)

// Source supplies one batch of raw listings per sync run.
type Source interface {
	FetchListings(ctx context.Context) ([]models.RawListing, error)
}

// JobStore performs the batch upsert keyed by (source, external id) and
// returns the number of rows written.
type JobStore interface {
	UpsertJobs(ctx context.Context, jobs []*models.Job) (int, error)
}

// AggregateStore recomputes the per-organization jobs count.
type AggregateStore interface {
	RefreshJobsCount(ctx context.Context, organizationURL string) error
}

type categoryClassifier interface {
	Enabled() bool
	Classify(ctx context.Context, title, description string) classify.Result
}

// Report is the terminal result of a successful sync run.
type Report struct {
	Fetched  int `json:"fetched"`
	Filtered int `json:"filtered"`
	Upserted int `json:"upserted"`
}

// Syncer runs the full fetch → filter → process → upsert → aggregate pass.
// One run is a single sequential worker: listings are processed in order so
// the classifier's shared rate quota is respected, and only the aggregate
// refresh at the end fans out.
type Syncer struct {
	source     Source
	jobs       JobStore
	aggregates AggregateStore
	resolver   *OrgResolver
	enricher   *Enricher
	classifier categoryClassifier
	filter     *KeywordFilter
	gate       ratelimit.Gate
	sourceTag  string
	logger     *zap.Logger
}

func NewSyncer(
	source Source,
	jobs JobStore,
	aggregates AggregateStore,
	resolver *OrgResolver,
	enricher *Enricher,
	classifier categoryClassifier,
	filter *KeywordFilter,
	gate ratelimit.Gate,
	sourceTag string,
	logger *zap.Logger,
) *Syncer {
	return &Syncer{
		source:     source,
		jobs:       jobs,
		aggregates: aggregates,
		resolver:   resolver,
		enricher:   enricher,
		classifier: classifier,
		filter:     filter,
		gate:       gate,
		sourceTag:  sourceTag,
		logger:     logger,
	}
}

// Run executes one sync pass. Fetch and batch-upsert failures are fatal and
// abort the run; resolution, enrichment, and classification degrade per item.
//
// There is no run lock: overlapping runs interleave safely on the jobs table
// thanks to the conflict key. The company-dedup set below is scoped to this
// run only, so concurrent runs may enrich the same company twice. Wasteful
// but harmless, since the company upsert is idempotent.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	listings, err := s.source.FetchListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	survivors := make([]models.RawListing, 0, len(listings))
	for _, listing := range listings {
		if !s.keep(&listing) {
			continue
		}
		survivors = append(survivors, listing)
	}

	s.logger.Info("listings filtered",
		zap.Int("fetched", len(listings)),
		zap.Int("kept", len(survivors)),
	)

	// Organization URLs already enriched in this run. Owned by the run, never
	// shared across runs.
	enriched := make(map[string]struct{})
	touched := make(map[string]struct{})

	jobs := make([]*models.Job, 0, len(survivors))
	for i := range survivors {
		// Pace the classifier's external quota: one delay per iteration,
		// between items, whether or not classification ran for this one.
		if i > 0 && s.classifier.Enabled() && s.gate != nil {
			if err := s.gate.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate gate: %w", err)
			}
		}

		job, organizationURL := s.processListing(ctx, &survivors[i], enriched)
		jobs = append(jobs, job)
		if organizationURL != "" {
			touched[organizationURL] = struct{}{}
		}
	}

	upserted, err := s.jobs.UpsertJobs(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("upsert jobs: %w", err)
	}

	s.refreshAggregates(ctx, touched)

	report := &Report{
		Fetched:  len(listings),
		Filtered: len(survivors),
		Upserted: upserted,
	}

	s.logger.Info("sync complete",
		zap.Int("fetched", report.Fetched),
		zap.Int("filtered", report.Filtered),
		zap.Int("upserted", report.Upserted),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

// keep applies the strict filter: non-empty title, organization, and URL,
// topical relevance, and a valid apply link.
func (s *Syncer) keep(listing *models.RawListing) bool {
	if trimmedDeref(listing.Title) == "" ||
		trimmedDeref(listing.Organization) == "" ||
		trimmedDeref(listing.URL) == "" {
		return false
	}

	if !s.filter.Relevant(trimmedDeref(listing.Title), trimmedDeref(listing.DescriptionText)) {
		return false
	}

	return ValidApplyURL(listing.URL)
}

func (s *Syncer) processListing(ctx context.Context, listing *models.RawListing, enriched map[string]struct{}) (*models.Job, string) {
	title := trimmedDeref(listing.Title)
	company := trimmedDeref(listing.Organization)
	if title == "" || company == "" {
		// The filter step guarantees both; reaching here is a bug, not a
		// recoverable per-item condition.
		panic("pipeline: listing passed filtering without title or organization")
	}

	resolution := s.resolver.Resolve(ctx, listing)

	companySlug := Slugify(company)
	titleSlug := Slugify(title)

	externalID := trimmedDeref(listing.ID)
	if externalID == "" {
		externalID = stableIDFromURL(trimmedDeref(listing.URL))
	}

	organizationURL := ""
	if resolution.WebsiteURL != nil {
		organizationURL = *resolution.WebsiteURL
	}

	if organizationURL != "" && s.enricher != nil {
		if _, done := enriched[organizationURL]; !done {
			slug := companySlug
			if err := s.enricher.Enrich(ctx, organizationURL, company, Domain(organizationURL), &slug); err != nil {
				s.logger.Warn("company enrichment failed",
					zap.String("organization_url", organizationURL),
					zap.Error(err),
				)
			}
			enriched[organizationURL] = struct{}{}
		}
	}

	classification := s.classifier.Classify(ctx, title, snippet(trimmedDeref(listing.DescriptionText)))
	if classification.Outcome == classify.OutcomeFailed {
		s.logger.Warn("classification degraded to unclassified", zap.String("title", title))
	}

	job := &models.Job{
		ID:               uuid.New(),
		Title:            clip(title, maxTitleLen),
		Company:          clip(company, maxCompanyLen),
		CompanySlug:      &companySlug,
		Slug:             jobSlug(companySlug, titleSlug, externalID),
		Category:         classification.Category,
		Location:         location(listing),
		IsRemote:         listing.RemoteDerived != nil && *listing.RemoteDerived,
		ApplyURL:         trimmedDeref(listing.URL),
		Source:           s.sourceTag,
		ExternalID:       externalID,
		PostedAt:         parseTime(listing.DatePosted),
		LastUpdated:      lastUpdated(listing),
		Salary:           NormalizeSalary(listing),
		JobType:          jobType(listing.EmploymentType),
		Description:      descriptionSnippet(listing.DescriptionText),
		OrganizationURL:  resolution.WebsiteURL,
		OrganizationLogo: resolution.LogoURL,
	}

	return job, organizationURL
}

// refreshAggregates recomputes jobs_count for every organization touched in
// this run. One task per organization, no ordering between them, each
// independently best-effort.
func (s *Syncer) refreshAggregates(ctx context.Context, touched map[string]struct{}) {
	var wg sync.WaitGroup
	for organizationURL := range touched {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if err := s.aggregates.RefreshJobsCount(ctx, u); err != nil {
				s.logger.Warn("jobs count refresh failed",
					zap.String("organization_url", u),
					zap.Error(err),
				)
			}
		}(organizationURL)
	}
	wg.Wait()
}

// jobSlug joins company slug, title slug, and an external-id suffix, so two
// listings sharing company and title still get distinct slugs.
func jobSlug(companySlug, titleSlug, externalID string) string {
	suffix := externalID
	if len(suffix) > externalIDSuffixLen {
		suffix = suffix[len(suffix)-externalIDSuffixLen:]
	}
	suffix = strings.ToLower(suffix)

	parts := make([]string, 0, 3)
	for _, part := range []string{companySlug, titleSlug, suffix} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "-")
}

func stableIDFromURL(u string) string {
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}

func location(listing *models.RawListing) string {
	for _, loc := range listing.LocationsDerived {
		if trimmed := strings.TrimSpace(loc); trimmed != "" {
			return trimmed
		}
	}
	return defaultLocation
}

func lastUpdated(listing *models.RawListing) *time.Time {
	if t := parseTime(listing.DateCreated); t != nil {
		return t
	}
	return parseTime(listing.DatePosted)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(raw *string) *time.Time {
	candidate := trimmedDeref(raw)
	if candidate == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return &t
		}
	}
	return nil
}

var jobTypeNames = map[string]string{
	"FULL_TIME":  "Full-Time",
	"PART_TIME":  "Part-Time",
	"CONTRACTOR": "Contract",
	"CONTRACT":   "Contract",
	"TEMPORARY":  "Temporary",
	"INTERN":     "Internship",
}

func jobType(employmentTypes []string) string {
	for _, raw := range employmentTypes {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if name, ok := jobTypeNames[key]; ok {
			return name
		}
	}
	return defaultJobType
}

func descriptionSnippet(description *string) *string {
	text := snippet(trimmedDeref(description))
	if text == "" {
		return nil
	}
	return &text
}

func snippet(text string) string {
	return clip(strings.TrimSpace(text), maxDescriptionLen)
}

// clip bounds the string to max bytes, backing up to a rune boundary so a
// multi-byte character is never split into invalid UTF-8.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
