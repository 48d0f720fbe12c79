package parser

import (
	"regexp"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// sectionHeaders maps each section to its known header synonyms, in match
// order. Input lines are already cleaned, so synonyms are lowercase.
var sectionHeaders = []struct {
	section  string
	synonyms []string
}{
	{models.SectionTitle, []string{"title", "role", "position"}},
	{models.SectionSummary, []string{"summary", "professional summary", "career summary", "profile", "professional profile"}},
	{models.SectionExperience, []string{"experience", "work experience", "professional experience", "work history", "employment history"}},
	{models.SectionSkills, []string{"skills", "technical skills", "core skills", "highlights", "skill highlights"}},
	{models.SectionEducation, []string{"education", "education and training", "academic background", "training"}},
}

// IsHeaderLine reports whether a cleaned line looks like a section header:
// non-empty, at most 40 characters, no trailing period, at most 5 words.
// The gate keeps long narrative sentences from being taken for headers.
func IsHeaderLine(line string) bool {
	if line == "" || len(line) > 40 {
		return false
	}
	if strings.HasSuffix(line, ".") || len(strings.Fields(line)) > 5 {
		return false
	}
	return true
}

// MatchHeader returns the section a cleaned line names, or "" if it names
// none. A line matches when it equals a synonym or starts with "synonym:".
func MatchHeader(line string) string {
	for _, sh := range sectionHeaders {
		for _, syn := range sh.synonyms {
			if line == syn || strings.HasPrefix(line, syn+":") {
				return sh.section
			}
		}
	}
	return ""
}

// Segment walks the raw extracted text line by line and buckets content into
// named sections. The cursor starts at title; a header line naming a known
// section moves it. The first non-header line of the document is captured
// once as the title. Skills content joins with ", ", everything else with a
// single space. Every section is present in the result, possibly empty.
func Segment(rawText string) map[string]string {
	data := make(map[string]string, len(models.Sections))
	for _, s := range models.Sections {
		data[s] = ""
	}

	current := models.SectionTitle
	titleTaken := false

	for _, raw := range strings.Split(rawText, "\n") {
		line := CleanLine(raw)
		if line == "" {
			continue
		}

		if IsHeaderLine(line) {
			if matched := MatchHeader(line); matched != "" {
				current = matched
				continue
			}
		}

		if current == models.SectionTitle && !titleTaken {
			data[models.SectionTitle] = line
			titleTaken = true
			continue
		}

		if current == models.SectionSkills {
			if data[current] != "" {
				data[current] += ", " + line
			} else {
				data[current] = line
			}
		} else {
			data[current] += " " + line
		}
	}

	for s, v := range data {
		data[s] = strings.TrimSpace(v)
	}
	return data
}

var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// InferTitleFromExperience derives a title when segmentation found none:
// the first |-delimited token of the experience section, years stripped,
// cut to the first 4 words.
func InferTitleFromExperience(experience string) string {
	if experience == "" {
		return ""
	}
	first := yearRe.ReplaceAllString(strings.SplitN(experience, "|", 2)[0], "")
	words := strings.Fields(first)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
