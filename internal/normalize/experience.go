// Package normalize parses ambiguous free-text fields from model output into typed, bounded values.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinYearsExperience admits a three-month internship but rejects near-zero noise.
	MinYearsExperience = 0.25
	// MaxYearsExperience bounds a single career stage.
	MaxYearsExperience = 60.0
)

var (
	leadingNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	durationUnitRe  = regexp.MustCompile(`\b(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|wks?|months?|mos?|years?|yrs?)\b`)
	wordNumbers     = map[string]string{
		"a ":     "1 ",
		"an ":    "1 ",
		"one ":   "1 ",
		"two ":   "2 ",
		"three ": "3 ",
		"four ":  "4 ",
		"five ":  "5 ",
		"six ":   "6 ",
		"ten ":   "10 ",
	}
)

// ParseYearsExperience extracts a number of years from text such as "2 years",
// "5+ yrs", "3-5" or "18 months".
//
// Task-sized units (seconds through weeks) mean the model confused a task duration
// with a career-stage duration, so they are rejected rather than converted. Months
// are converted, and anything under MinYearsExperience is rejected.
func ParseYearsExperience(text string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return 0, false
	}
	for word, digit := range wordNumbers {
		if strings.HasPrefix(lower, word) {
			lower = digit + strings.TrimPrefix(lower, word)
			break
		}
	}

	loc := leadingNumberRe.FindStringIndex(lower)
	if loc == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(lower[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, false
	}

	years := value
	if unit := durationUnitRe.FindString(lower[loc[1]:]); unit != "" {
		switch {
		case strings.HasPrefix(unit, "mo"):
			years = value / 12
		case strings.HasPrefix(unit, "y"):
		default:
			return 0, false
		}
	}

	years = math.Round(years*100) / 100
	if years < MinYearsExperience || years > MaxYearsExperience {
		return 0, false
	}
	return years, true
}

// FormatYears renders a year count the way ParseYearsExperience reads it back.
func FormatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64) + " years"
}
