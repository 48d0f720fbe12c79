package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// monthsPattern matches English month names and their 3-letter abbreviations.
const monthsPattern = `(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)`

const (
	datePoint = monthsPattern + `\s+\d{4}|\d{1,2}/\d{2,4}|\b\d{4}\b`
	openEnded = `current|present|now`
)

var (
	// dateRangeRe matches a start date joined to an end date (or an
	// open-ended token) by "to", "until", or a hyphen.
	dateRangeRe = regexp.MustCompile(`(?i)(` + datePoint + `)\s+(?:to|until|-)\s+(` + datePoint + `|` + openEnded + `)`)

	// datePointRe finds the individual endpoints inside a matched range.
	datePointRe = regexp.MustCompile(`(?i)(` + monthsPattern + `\s+\d{4}|\d{1,2}/\d{2,4}|\b\d{4}\b|` + openEnded + `)`)

	monthYearRe = regexp.MustCompile(`(?i)(` + monthsPattern + `)\s+(\d{4})`)
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// toDecimalYear resolves one date token to a fractional year. Open-ended
// tokens resolve against the clock passed in by the caller.
func toDecimalYear(s string, now time.Time) (float64, bool) {
	s = strings.ToLower(s)

	for _, open := range []string{"current", "present", "now"} {
		if strings.Contains(s, open) {
			return float64(now.Year()) + float64(now.Month())/12, true
		}
	}

	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, false
		}
		if month, err := strconv.Atoi(parts[0]); err == nil {
			return float64(year) + float64(month)/12, true
		}
		return float64(year), true
	}

	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		return float64(year) + float64(monthIndex[m[1][:3]])/12, true
	}

	if year, err := strconv.Atoi(s); err == nil {
		return float64(year), true
	}
	return 0, false
}

// CalculateDuration computes the duration in fractional years covered by a
// matched date-range string, rounded to one decimal. With fewer than two
// resolvable endpoints the duration defaults to 0.5 years — assume at least
// a short stint rather than fail.
func CalculateDuration(dateStr string) float64 {
	return calculateDurationAt(dateStr, time.Now())
}

func calculateDurationAt(dateStr string, now time.Time) float64 {
	found := datePointRe.FindAllString(dateStr, -1)
	var years []float64
	for _, f := range found {
		if y, ok := toDecimalYear(f, now); ok {
			years = append(years, y)
		}
	}
	if len(years) < 2 {
		return 0.5
	}
	d := years[len(years)-1] - years[0]
	if d < 0 {
		d = -d
	}
	return utils.Round(d, 1)
}

// EnrichExperience extracts role blocks from a candidate's experience text.
// One block is emitted per date-range match, all sharing the text with every
// date range stripped out; with no match a single zero-year block wraps the
// whole text. Role is always the candidate's inferred title — the source text
// gives no reliable per-block role anchor.
func EnrichExperience(title, text string) []models.RoleBlock {
	matches := dateRangeRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return []models.RoleBlock{{Role: title, Years: 0, Content: text}}
	}

	content := strings.TrimSpace(dateRangeRe.ReplaceAllString(text, ""))
	blocks := make([]models.RoleBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, models.RoleBlock{
			Role:    title,
			Years:   CalculateDuration(m),
			Content: content,
		})
	}
	return blocks
}
