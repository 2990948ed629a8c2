package pipeline

import (
	"context"
	"errors"
	"testing"

	"infosec-jobs/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	enabled bool
	link    string
	err     error
	queries []string
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) FirstOrganicLink(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.link, f.err
}

func TestResolve_ProvidedURLShortCircuits(t *testing.T) {
	search := &fakeSearcher{enabled: true, link: "https://wrong.example.com"}
	resolver := NewOrgResolver(search, zap.NewNop())

	listing := &models.RawListing{
		Organization:    strptr("Acme"),
		OrganizationURL: strptr("https://acme.com"),
	}

	res := resolver.Resolve(context.Background(), listing)

	assert.Empty(t, search.queries, "provided URL must not trigger a search")
	assert.Equal(t, ResolutionListing, res.Source)
	if assert.NotNil(t, res.WebsiteURL) {
		assert.Equal(t, "https://acme.com", *res.WebsiteURL)
	}
	// No logo on the listing: derived from the organization domain.
	if assert.NotNil(t, res.LogoURL) {
		assert.Contains(t, *res.LogoURL, "domain=acme.com")
	}
}

func TestResolve_ProvidedLogoKept(t *testing.T) {
	resolver := NewOrgResolver(&fakeSearcher{enabled: true}, zap.NewNop())

	listing := &models.RawListing{
		Organization:     strptr("Acme"),
		OrganizationURL:  strptr("https://acme.com"),
		OrganizationLogo: strptr("https://cdn.acme.com/logo.png"),
	}

	res := resolver.Resolve(context.Background(), listing)
	if assert.NotNil(t, res.LogoURL) {
		assert.Equal(t, "https://cdn.acme.com/logo.png", *res.LogoURL)
	}
}

func TestResolve_SearchFallback(t *testing.T) {
	search := &fakeSearcher{enabled: true, link: "https://www.acme.com/"}
	resolver := NewOrgResolver(search, zap.NewNop())

	listing := &models.RawListing{Organization: strptr("Acme")}

	res := resolver.Resolve(context.Background(), listing)

	assert.Equal(t, []string{"Acme official website"}, search.queries)
	assert.Equal(t, ResolutionSearch, res.Source)
	if assert.NotNil(t, res.WebsiteURL) {
		assert.Equal(t, "https://www.acme.com/", *res.WebsiteURL)
	}
	if assert.NotNil(t, res.LogoURL) {
		assert.Contains(t, *res.LogoURL, "domain=acme.com")
	}
}

func TestResolve_DisabledSearchDegrades(t *testing.T) {
	search := &fakeSearcher{enabled: false}
	resolver := NewOrgResolver(search, zap.NewNop())

	listing := &models.RawListing{
		Organization:     strptr("Acme"),
		OrganizationLogo: strptr("https://cdn.acme.com/logo.png"),
	}

	res := resolver.Resolve(context.Background(), listing)

	assert.Empty(t, search.queries)
	assert.Equal(t, ResolutionNone, res.Source)
	assert.Nil(t, res.WebsiteURL)
	if assert.NotNil(t, res.LogoURL) {
		assert.Equal(t, "https://cdn.acme.com/logo.png", *res.LogoURL)
	}
}

func TestResolve_SearchFailureDegrades(t *testing.T) {
	search := &fakeSearcher{enabled: true, err: errors.New("quota exceeded")}
	resolver := NewOrgResolver(search, zap.NewNop())

	listing := &models.RawListing{Organization: strptr("Acme")}

	res := resolver.Resolve(context.Background(), listing)

	assert.Equal(t, ResolutionNone, res.Source)
	assert.Nil(t, res.WebsiteURL)
	assert.Nil(t, res.LogoURL)
}
