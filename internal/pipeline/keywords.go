// Package pipeline implements the ingestion-normalization-enrichment core:
// topical filtering, URL and slug handling, salary normalization,
// organization resolution, company enrichment, and the sync orchestrator
// that sequences them.
package pipeline

import "strings"

// DefaultIncludeKeywords mark a listing as infosec-relevant when any of them
// appears in the combined title + description text.
var DefaultIncludeKeywords = []string{
	"security",
	"infosec",
	"cyber",
	"soc analyst",
	"penetration test",
	"pentest",
	"appsec",
	"devsecops",
	"threat",
	"vulnerability",
	"incident response",
	"forensics",
	"cryptograph",
	"red team",
	"blue team",
	"grc",
	"siem",
	"ciso",
}

// DefaultExcludeKeywords discard a listing no matter what else matches;
// they catch the physical-security postings the include terms would let in.
var DefaultExcludeKeywords = []string{
	"physical security",
	"security guard",
	"security officer",
	"loss prevention",
	"alarm technician",
	"armed security",
}

// KeywordFilter decides topical relevance of a raw listing from its
// title + description text.
type KeywordFilter struct {
	include []string
	exclude []string
}

func NewKeywordFilter(include, exclude []string) *KeywordFilter {
	return &KeywordFilter{include: include, exclude: exclude}
}

// Relevant reports whether the listing text passes the filter. Exclusion
// takes precedence: any exclude term rejects regardless of include matches.
func (f *KeywordFilter) Relevant(title, description string) bool {
	combined := strings.ToLower(title + " " + description)

	for _, keyword := range f.exclude {
		if keyword == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(keyword)) {
			return false
		}
	}

	for _, keyword := range f.include {
		if keyword == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}
