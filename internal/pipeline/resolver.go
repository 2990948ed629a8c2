package pipeline

import (
	"context"
	"strings"

	"infosec-jobs/internal/models"

	"go.uber.org/zap"
)

// ResolutionSource records how an organization's website was obtained, so
// the degraded paths stay distinguishable in logs and tests.
type ResolutionSource int

const (
	// ResolutionListing: the listing carried its own organization URL.
	ResolutionListing ResolutionSource = iota
	// ResolutionSearch: the URL came from a search-API lookup.
	ResolutionSearch
	// ResolutionNone: no URL; credential missing or the lookup failed.
	ResolutionNone
)

func (s ResolutionSource) String() string {
	switch s {
	case ResolutionListing:
		return "listing"
	case ResolutionSearch:
		return "search"
	case ResolutionNone:
		return "none"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving one organization's website and logo.
type Resolution struct {
	WebsiteURL *string
	LogoURL    *string
	Source     ResolutionSource
}

type websiteSearcher interface {
	Enabled() bool
	FirstOrganicLink(ctx context.Context, query string) (string, error)
}

// OrgResolver derives an organization's canonical website and logo URL,
// falling back to a search-API lookup when the listing carries neither.
// Search failures never abort the pipeline.
type OrgResolver struct {
	search websiteSearcher
	logger *zap.Logger
}

func NewOrgResolver(search websiteSearcher, logger *zap.Logger) *OrgResolver {
	return &OrgResolver{search: search, logger: logger}
}

func (r *OrgResolver) Resolve(ctx context.Context, listing *models.RawListing) Resolution {
	// Short-circuit: a provided organization URL means no network call.
	if orgURL := trimmedDeref(listing.OrganizationURL); orgURL != "" {
		logo := listing.OrganizationLogo
		if logo == nil {
			if domain := Domain(orgURL); domain != "" {
				favicon := FaviconURL(domain)
				logo = &favicon
			}
		}
		return Resolution{WebsiteURL: &orgURL, LogoURL: logo, Source: ResolutionListing}
	}

	if r.search == nil || !r.search.Enabled() {
		return Resolution{LogoURL: listing.OrganizationLogo, Source: ResolutionNone}
	}

	name := trimmedDeref(listing.Organization)
	link, err := r.search.FirstOrganicLink(ctx, name+" official website")
	if err != nil {
		r.logger.Warn("organization website lookup failed",
			zap.String("organization", name),
			zap.Error(err),
		)
		return Resolution{LogoURL: listing.OrganizationLogo, Source: ResolutionNone}
	}

	resolution := Resolution{WebsiteURL: &link, Source: ResolutionSearch}
	if domain := Domain(link); domain != "" {
		favicon := FaviconURL(domain)
		resolution.LogoURL = &favicon
	} else {
		resolution.LogoURL = listing.OrganizationLogo
	}

	return resolution
}

func trimmedDeref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
