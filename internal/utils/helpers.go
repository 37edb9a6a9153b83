package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/tidwall/gjson"
)

const (
	// Uplift applied when a listing only advertises a lower bound
	salaryMultiplierOnlyFrom = 1.2
	// Markdown applied when a listing only advertises an upper bound
	salaryMultiplierOnlyTo = 0.8
)

// PredictSalary estimates a single salary value from the advertised range.
// The second return value is false when neither bound is present.
func PredictSalary(bounds models.SalaryBounds) (float64, bool) {
	switch {
	case bounds.From != nil && bounds.To != nil:
		return (*bounds.From + *bounds.To) / 2, true
	case bounds.From != nil:
		return *bounds.From * salaryMultiplierOnlyFrom, true
	case bounds.To != nil:
		return *bounds.To * salaryMultiplierOnlyTo, true
	}
	return 0, false
}

// BoundFromJSON reads an optional salary bound. Missing fields, nulls,
// non-numeric values and zero all mean "not specified" on both boards.
func BoundFromJSON(value gjson.Result) *float64 {
	if !value.Exists() || value.Type != gjson.Number {
		return nil
	}
	v := value.Float()
	if v <= 0 {
		return nil
	}
	return &v
}

// FormatSalary formats a salary with thousands separators
func FormatSalary(salary int) string {
	return humanize.Comma(int64(salary))
}

// Preview shortens a response body for error messages. The cut never
// splits a UTF-8 sequence.
func Preview(body []byte, limit int) string {
	preview := strings.TrimSpace(string(body))
	if len(preview) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	return preview
}

// FormatTitle builds a table title such as "HeadHunter Moscow"
func FormatTitle(source, location string) string {
	if location == "" {
		return source
	}
	return fmt.Sprintf("%s %s", source, location)
}
