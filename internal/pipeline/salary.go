package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"infosec-jobs/internal/models"
)

const maxSalaryLen = 255

// NormalizeSalary reconciles the listing's competing salary shapes into one
// canonical compact string. Each component resolves through a fixed priority
// chain (flat field, then the structured salary_raw.value object, then the
// AI-derived field) and the first non-null candidate wins. The function
// never fails: the result is a string or nil, whatever the input looks like.
func NormalizeSalary(listing *models.RawListing) *string {
	if listing == nil {
		return nil
	}

	var (
		nestedValue    *models.SalaryValue
		nestedCurrency *string
	)
	if listing.SalaryRaw != nil {
		nestedValue = listing.SalaryRaw.Value
		nestedCurrency = listing.SalaryRaw.Currency
	}

	var nestedMin, nestedMax, nestedVal any
	var nestedUnit *string
	if nestedValue != nil {
		nestedMin = nestedValue.MinValue
		nestedMax = nestedValue.MaxValue
		nestedVal = nestedValue.Value
		nestedUnit = nestedValue.UnitText
	}

	min := firstNumber(listing.MinSalary, nestedMin, listing.AISalaryMin)
	max := firstNumber(listing.MaxSalary, nestedMax, listing.AISalaryMax)
	value := firstNumber(listing.Salary, nestedVal, listing.AISalaryValue)
	currency := firstString(listing.SalaryCurrency, nestedCurrency, listing.AISalaryCurrency)
	period := firstString(listing.SalaryPeriod, nestedUnit, listing.AISalaryUnit)

	if min != nil || max != nil || currency != nil || period != nil {
		payload := map[string]any{}
		if min != nil {
			payload["min"] = *min
		}
		if max != nil {
			payload["max"] = *max
		}
		if value != nil {
			payload["value"] = *value
		}
		if currency != nil {
			payload["currency"] = *currency
		}
		if period != nil {
			payload["period"] = *period
		}
		if listing.Salary != nil {
			payload["raw"] = listing.Salary
		}

		if data, err := json.Marshal(payload); err == nil {
			return truncated(string(data))
		}
		// Unserializable raw value: fall through to the raw fallback.
	}

	return rawFallback(listing.Salary)
}

// rawFallback coerces the raw salary value when no structured component
// resolved: nil stays nil, a string is truncated, anything else is
// JSON-serialized, with plain string formatting as the last resort.
func rawFallback(raw any) *string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return truncated(v)
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return truncated(fmt.Sprintf("%v", raw))
		}
		return truncated(string(data))
	}
}

// firstNumber returns the first candidate that coerces to a usable number.
func firstNumber(candidates ...any) *float64 {
	for _, candidate := range candidates {
		if n := coerceNumber(candidate); n != nil {
			return n
		}
	}
	return nil
}

// coerceNumber strips everything but digits and '.' from string input and
// parses the rest. Invalid, empty, and zero results are all nil: a zero
// salary component carries no information and must not serialize as 0.
func coerceNumber(v any) *float64 {
	var parsed float64

	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		parsed = t
	case float32:
		parsed = float64(t)
	case int:
		parsed = float64(t)
	case int64:
		parsed = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		parsed = f
	case string:
		var b strings.Builder
		for _, r := range t {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		cleaned := b.String()
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}

	if parsed == 0 {
		return nil
	}
	return &parsed
}

func firstString(candidates ...*string) *string {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*candidate); trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

// truncated bounds the string to the column width, backing up to a rune
// boundary so a multi-byte character is never split into invalid UTF-8.
func truncated(s string) *string {
	if len(s) > maxSalaryLen {
		cut := maxSalaryLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return &s
}
