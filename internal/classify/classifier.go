// Package classify assigns one of a fixed category set to a job listing via
// an LLM completion call. Classification is best-effort: every failure mode
// degrades to an unclassified result and never aborts a sync batch.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	DefaultModel = "gpt-4o-mini"

	// Near-deterministic sampling and a tight cap: the answer is a single
	// category name.
	temperature     = 0.1
	maxOutputTokens = 16

	maxDescriptionChars = 1500
)

// Categories is the closed set a classification must land in. The "contains"
// fallback checks them in declaration order.
var Categories = []string{
	"SECURITY ENGINEERING",
	"SOC & INCIDENT RESPONSE",
	"PENETRATION TESTING",
	"APPLICATION SECURITY",
	"CLOUD SECURITY",
	"GRC & COMPLIANCE",
	"THREAT INTELLIGENCE",
	"SECURITY LEADERSHIP",
}

// Outcome records how a classification ended, so degraded paths stay visible
// in logs without changing pipeline behavior.
type Outcome int

const (
	OutcomeDisabled Outcome = iota
	OutcomeMatched
	OutcomeUnrecognized
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeMatched:
		return "matched"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the classification of one listing. Category is nil for every
// outcome except OutcomeMatched.
type Result struct {
	Category *string
	Outcome  Outcome
}

type Classifier struct {
	client  openai.Client
	model   string
	enabled bool
	logger  *zap.Logger
}

// New builds a classifier. With an empty API key it is disabled: Classify
// short-circuits to an unclassified result without any network access.
func New(apiKey, model string, logger *zap.Logger) *Classifier {
	if model == "" {
		model = DefaultModel
	}

	c := &Classifier{model: model, logger: logger}
	if apiKey == "" {
		logger.Info("LLM credential not configured, classification disabled")
		return c
	}

	c.client = openai.NewClient(option.WithAPIKey(apiKey))
	c.enabled = true
	return c
}

func (c *Classifier) Enabled() bool {
	return c.enabled
}

// Classify asks the model for exactly one category name and validates the
// answer against the closed set.
func (c *Classifier) Classify(ctx context.Context, title, description string) Result {
	if !c.enabled {
		return Result{Outcome: OutcomeDisabled}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(title, description)),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		c.logger.Warn("classification call failed",
			zap.String("title", title),
			zap.Error(err),
		)
		return Result{Outcome: OutcomeFailed}
	}

	if len(completion.Choices) == 0 {
		c.logger.Warn("classification returned no choices", zap.String("title", title))
		return Result{Outcome: OutcomeFailed}
	}

	result := matchCategory(completion.Choices[0].Message.Content)
	if result.Outcome == OutcomeUnrecognized {
		c.logger.Warn("classification output not in category set",
			zap.String("title", title),
			zap.String("output", completion.Choices[0].Message.Content),
		)
	}

	return result
}

func buildPrompt(title, description string) string {
	if len(description) > maxDescriptionChars {
		description = description[:maxDescriptionChars]
	}

	return fmt.Sprintf(
		"Assign this cybersecurity job posting to exactly one of the following categories:\n%s\n\n"+
			"Job title: %s\n\nJob description: %s\n\n"+
			"Reply with the category name only, nothing else.",
		strings.Join(Categories, "\n"), title, description,
	)
}

// matchCategory uppercases and trims the model output, then accepts it only
// if it equals or contains a known category. Anything else is unrecognized.
func matchCategory(raw string) Result {
	guess := strings.ToUpper(strings.TrimSpace(raw))
	if guess == "" {
		return Result{Outcome: OutcomeUnrecognized}
	}

	for _, category := range Categories {
		if guess == category || strings.Contains(guess, category) {
			matched := category
			return Result{Category: &matched, Outcome: OutcomeMatched}
		}
	}

	return Result{Outcome: OutcomeUnrecognized}
}
