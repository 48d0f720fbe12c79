package parser

import (
	"regexp"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

var (
	certKeywordRe = regexp.MustCompile(`(?i)\b(certified|certificate|certification|license|cpa|cfa)\b`)

	// institutionRe captures up to 3 words preceding an institution-type keyword.
	institutionRe = regexp.MustCompile(`(?i)((?:\b\w+\b\s+){1,3}(?:university|college|institute|school|polytechnic|universitas))`)

	gpaTrailRe  = regexp.MustCompile(`(?i)\b\d{4}\b|gpa.*`)
	monthNameRe = regexp.MustCompile(`(?i)` + monthsPattern)
)

// EnrichEducation extracts certification counts and institution names from
// raw education text and produces a cleaned content string with years,
// GPA tails, and month names stripped. Institutions are deduplicated by
// exact string, first-seen order; "unknown" stands in when none are found.
func EnrichEducation(text string) models.EducationRecord {
	if text == "" {
		return models.EducationRecord{Institutions: []string{"unknown"}}
	}

	certs := len(certKeywordRe.FindAllString(text, -1))

	var institutions []string
	seen := make(map[string]bool)
	for _, m := range institutionRe.FindAllStringSubmatch(text, -1) {
		inst := strings.TrimSpace(m[1])
		if !seen[inst] {
			seen[inst] = true
			institutions = append(institutions, inst)
		}
	}
	if len(institutions) == 0 {
		institutions = []string{"unknown"}
	}

	clean := gpaTrailRe.ReplaceAllString(text, "")
	clean = monthNameRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(whitespaceRe.ReplaceAllString(clean, " "))

	return models.EducationRecord{
		Institutions: institutions,
		CertCount:    certs,
		Content:      clean,
	}
}
