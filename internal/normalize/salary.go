package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SalaryRangeMultiplier is the spread applied around a single salary figure.
// It approximates a typical pay band width; it is not a statistical fact.
const SalaryRangeMultiplier = 1.3

// hoursPerYear annualizes hourly rates (40h x 52w).
const hoursPerYear = 2080

var (
	salaryNumberRe = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*([km])?\b`)
	hourlyRe       = regexp.MustCompile(`(/\s*(hr|hour)\b|\bper\s+hour\b|\bhourly\b)`)

	// A figure directly followed by a time unit is a duration ("15 minutes",
	// "5+ years"), not pay. Hours are pay only in the hourly-rate forms above.
	durationRe     = regexp.MustCompile(`\d\s*\+?\s*(seconds?|secs?|minutes?|mins?|days?|weeks?|wks?|months?|mos?|years?|yrs?)\b`)
	hourDurationRe = regexp.MustCompile(`\d\s*\+?\s*(hours?|hrs?)\b`)
)

// SalaryRange is an annual salary band.
type SalaryRange struct {
	Low  float64
	High float64
}

// ParseSalary extracts a salary band from text such as "$80,000 - $120,000",
// "95k" or "$45/hour". With a single figure the band is derived using
// multiplier. Text without a usable figure ("varies", "Profile update") is
// rejected, as is a duration ("15 minutes", "3 hours"); a number is never invented.
func ParseSalary(text string, multiplier float64) (SalaryRange, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" || isDuration(lower) {
		return SalaryRange{}, false
	}
	if multiplier <= 1 {
		multiplier = SalaryRangeMultiplier
	}

	matches := salaryNumberRe.FindAllStringSubmatch(lower, -1)
	values := make([]float64, 0, 2)
	suffixes := make([]string, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || v <= 0 {
			continue
		}
		values = append(values, v)
		suffixes = append(suffixes, m[2])
		if len(values) == 2 {
			break
		}
	}
	if len(values) == 0 {
		return SalaryRange{}, false
	}

	// "80-120k": the suffix on the upper bound applies to both.
	if len(values) == 2 && suffixes[0] == "" && suffixes[1] != "" && values[0] < 1000 {
		suffixes[0] = suffixes[1]
	}
	for i := range values {
		values[i] = applySuffix(values[i], suffixes[i])
	}
	if hourlyRe.MatchString(lower) {
		for i := range values {
			values[i] *= hoursPerYear
		}
	}

	var r SalaryRange
	if len(values) == 1 {
		r = SalaryRange{Low: values[0] / multiplier, High: values[0] * multiplier}
	} else {
		r = SalaryRange{Low: math.Min(values[0], values[1]), High: math.Max(values[0], values[1])}
	}
	r.Low = math.Round(r.Low)
	r.High = math.Round(r.High)
	if r.Low <= 0 {
		return SalaryRange{}, false
	}
	return r, true
}

func isDuration(lower string) bool {
	if durationRe.MatchString(lower) {
		return true
	}
	return hourDurationRe.MatchString(lower) && !hourlyRe.MatchString(lower)
}

func applySuffix(v float64, suffix string) float64 {
	switch suffix {
	case "k":
		return v * 1_000
	case "m":
		return v * 1_000_000
	default:
		return v
	}
}

// FormatSalary renders a band the way ParseSalary reads it back.
func FormatSalary(low, high float64) string {
	return "$" + strconv.FormatFloat(low, 'f', -1, 64) + " - $" + strconv.FormatFloat(high, 'f', -1, 64)
}
