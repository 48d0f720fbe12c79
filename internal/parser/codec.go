package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// The bracketed text formats below are a serialization boundary: the scorer
// and the chunk ingestor re-parse them by pattern matching, so producer and
// consumers must share this codec. Formats:
//
//	[[role: x][2.5 years][content: ...]] [[role: x][0 years][content: ...]]
//	[[institution: a, b][cert_count: 2][content: ...]]

var (
	expBlockRe  = regexp.MustCompile(`(?s)\[\[role:\s*(.*?)\]\[(.*?)\]\[content:\s*(.*?)\]\]`)
	numberRe    = regexp.MustCompile(`[\d.]+`)
	certCountRe = regexp.MustCompile(`cert_count:\s*(\d+)`)
	eduContentRe = regexp.MustCompile(`(?s)content:\s*(.*?)\]\]`)
	institutionFieldRe = regexp.MustCompile(`institution:\s*(.*?)\]`)
)

// FormatExperience serializes role blocks, one bracketed block per entry,
// space-joined.
func FormatExperience(blocks []models.RoleBlock) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = fmt.Sprintf("[[role: %s][%s years][content: %s]]",
			b.Role, formatYears(b.Years), strings.TrimSpace(b.Content))
	}
	return strings.Join(parts, " ")
}

// ParseExperience parses a serialized experience string back into role
// blocks. A years field with no parseable number falls back to 1.0.
func ParseExperience(s string) []models.RoleBlock {
	var blocks []models.RoleBlock
	for _, m := range expBlockRe.FindAllStringSubmatch(s, -1) {
		years := 1.0
		if num := numberRe.FindString(m[2]); num != "" {
			if v, err := strconv.ParseFloat(num, 64); err == nil {
				years = v
			}
		}
		blocks = append(blocks, models.RoleBlock{
			Role:    strings.TrimSpace(m[1]),
			Years:   years,
			Content: strings.TrimSpace(m[3]),
		})
	}
	return blocks
}

// FormatEducation serializes an education record.
func FormatEducation(rec models.EducationRecord) string {
	return fmt.Sprintf("[[institution: %s][cert_count: %d][content: %s]]",
		strings.Join(rec.Institutions, ", "), rec.CertCount, rec.Content)
}

// ParseEducation parses a serialized education record. Returns ok=false when
// the cert_count or content field cannot be found.
func ParseEducation(s string) (models.EducationRecord, bool) {
	cm := certCountRe.FindStringSubmatch(s)
	km := eduContentRe.FindStringSubmatch(s)
	if cm == nil || km == nil {
		return models.EducationRecord{}, false
	}
	count, _ := strconv.Atoi(cm[1])
	rec := models.EducationRecord{
		CertCount: count,
		Content:   km[1],
	}
	if im := institutionFieldRe.FindStringSubmatch(s); im != nil {
		for _, inst := range strings.Split(im[1], ", ") {
			if inst = strings.TrimSpace(inst); inst != "" {
				rec.Institutions = append(rec.Institutions, inst)
			}
		}
	}
	return rec, true
}

// formatYears renders a duration without a trailing zero fraction
// ("2.5", "0.5", "0", "3").
func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}
