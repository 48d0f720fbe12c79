// Package cli provides output formatting for the erabu CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteRanked writes the ranked candidate pool to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRanked(w io.Writer, candidates []*models.Candidate, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	default:
		writeRankedText(w, candidates)
		return nil
	}
}

func writeRankedText(w io.Writer, candidates []*models.Candidate) {
	fmt.Fprintf(w, "\nRanked %d candidate(s)\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank %d: %s\n", i+1, c.ID)
		if c.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", c.Title)
		}
		if c.Scores != nil {
			fmt.Fprintf(w, "Total: %.4f (skills: %.4f, summary: %.4f, education: %.4f, experience: %.4f)\n",
				c.Scores.Total, c.Scores.Skills, c.Scores.SummaryFinal,
				c.Scores.EducationFinal, c.Scores.ExperienceFinal)
		}
		if len(c.SkillsList) > 0 {
			fmt.Fprintf(w, "Skills: %s\n", strings.Join(c.SkillsList, ", "))
		}
		if c.AISummary != "" {
			fmt.Fprintf(w, "\n%s\n", c.AISummary)
		}
		fmt.Fprintln(w)
	}
}

// WriteAnswer writes a question answer and supporting chunk references to w.
func WriteAnswer(w io.Writer, answer string, chunks []*models.Chunk, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"answer": answer, "chunks": chunks})
	}
	fmt.Fprintf(w, "\n%s\n", answer)
	if len(chunks) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, c := range chunks {
			fmt.Fprintf(w, "  - %s (%s)\n", c.Meta.CandidateID, c.Meta.Section)
		}
	}
	return nil
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
