package rag

import (
	"fmt"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// BuildContext renders retrieved chunks into the context block handed to
// the language model. Chunks are grouped per candidate in first-seen order;
// each group opens with the candidate ID and overall score, then lists one
// section entry per chunk. Title chunks carry no section score and render a
// blank in its place.
func BuildContext(chunks []*models.Chunk) string {
	var order []string
	byCandidate := make(map[string][]*models.Chunk)
	for _, c := range chunks {
		id := c.Meta.CandidateID
		if _, ok := byCandidate[id]; !ok {
			order = append(order, id)
		}
		byCandidate[id] = append(byCandidate[id], c)
	}

	var sections []string
	for _, id := range order {
		group := byCandidate[id]
		header := fmt.Sprintf("=== Candidate: %s | Overall Score: %.2f ===",
			id, group[0].Meta.OverallScore)

		body := make([]string, len(group))
		for i, c := range group {
			score := " "
			if c.Meta.HasSectionScore {
				score = fmt.Sprintf("%.2f", c.Meta.SectionScore)
			}
			body[i] = fmt.Sprintf("- Section: %s (section_score=%s)\n%s",
				c.Meta.Section, score, c.Text)
		}
		sections = append(sections, header+"\n"+strings.Join(body, "\n"))
	}
	return strings.Join(sections, "\n\n")
}
