package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	c := New("", "", zap.NewNop())

	assert.False(t, c.Enabled())

	res := c.Classify(context.Background(), "Security Engineer", "")
	assert.Equal(t, OutcomeDisabled, res.Outcome)
	assert.Nil(t, res.Category)
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantOutcome  Outcome
		wantCategory string
	}{
		{
			name:         "exact match",
			raw:          "CLOUD SECURITY",
			wantOutcome:  OutcomeMatched,
			wantCategory: "CLOUD SECURITY",
		},
		{
			name:         "case and whitespace normalized",
			raw:          "  cloud security \n",
			wantOutcome:  OutcomeMatched,
			wantCategory: "CLOUD SECURITY",
		},
		{
			name:         "contains fallback",
			raw:          "The category is: PENETRATION TESTING.",
			wantOutcome:  OutcomeMatched,
			wantCategory: "PENETRATION TESTING",
		},
		{
			name:        "unknown category",
			raw:         "NETWORKING",
			wantOutcome: OutcomeUnrecognized,
		},
		{
			name:        "empty output",
			raw:         "   ",
			wantOutcome: OutcomeUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := matchCategory(tt.raw)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			if tt.wantCategory == "" {
				assert.Nil(t, res.Category)
			} else if assert.NotNil(t, res.Category) {
				assert.Equal(t, tt.wantCategory, *res.Category)
			}
		})
	}
}

func TestBuildPrompt_TruncatesDescription(t *testing.T) {
	long := make([]byte, maxDescriptionChars*2)
	for i := range long {
		long[i] = 'x'
	}

	prompt := buildPrompt("Security Engineer", string(long))
	assert.Less(t, len(prompt), maxDescriptionChars+500)
	assert.Contains(t, prompt, "Security Engineer")
	assert.Contains(t, prompt, "SECURITY LEADERSHIP")
}
