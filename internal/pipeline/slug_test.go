package pipeline

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme, Inc. 2024!", "acme-inc"},
		{"Agent007", "agent"},
		{"  CrowdStrike  ", "crowdstrike"},
		{"Palo Alto Networks", "palo-alto-networks"},
		{"---", ""},
		{"", ""},
		{"Sécurité Café", "sécurité-café"},
		{"A/B Testing & QA", "a-b-testing-qa"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyPtr(t *testing.T) {
	if got := SlugifyPtr(nil); got != nil {
		t.Errorf("SlugifyPtr(nil) = %v, want nil", got)
	}

	in := "Acme Corp"
	got := SlugifyPtr(&in)
	if got == nil || *got != "acme-corp" {
		t.Errorf("SlugifyPtr(%q) = %v, want acme-corp", in, got)
	}
}
