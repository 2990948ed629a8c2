package pipeline

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	faviconEndpoint = "https://www.google.com/s2/favicons"
	faviconSize     = 128
)

// ValidApplyURL reports whether the candidate is a well-formed http(s) URL.
// Purely syntactic, no network access.
func ValidApplyURL(raw *string) bool {
	if raw == nil {
		return false
	}

	candidate := strings.TrimSpace(*raw)
	if candidate == "" {
		return false
	}

	u, err := url.ParseRequestURI(candidate)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// Domain extracts the bare host from a URL or a scheme-less domain string,
// lowercased, without "www." or a port. Returns "" when nothing usable can
// be extracted.
func Domain(rawURL string) string {
	candidate := strings.TrimSpace(rawURL)
	if candidate == "" {
		return ""
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		u, err = url.Parse("https://" + candidate)
		if err != nil || u.Host == "" {
			return ""
		}
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	if !strings.Contains(host, ".") {
		return ""
	}

	return host
}

// FaviconURL builds the favicon-service URL for a domain. A string template
// only; reachability is never checked.
func FaviconURL(domain string) string {
	return fmt.Sprintf("%s?domain=%s&sz=%d", faviconEndpoint, url.QueryEscape(domain), faviconSize)
}
