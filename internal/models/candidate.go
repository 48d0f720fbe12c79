// Package models defines core data structures for candidates, job profiles, and chunks.
package models

// RoleBlock is one inferred work-experience entry: a role, its duration in
// fractional years, and the free-text content describing it.
type RoleBlock struct {
	Role    string  `json:"role"`
	Years   float64 `json:"years"`
	Content string  `json:"content"`
}

// EducationRecord holds the structured result of education enrichment.
type EducationRecord struct {
	Institutions []string `json:"institutions"`
	CertCount    int      `json:"cert_count"`
	Content      string   `json:"content"`
}

// Scores holds the per-category and total scores for one candidate.
// Summary, experience, and education are min-max normalized across the batch;
// the skills score is used as computed.
type Scores struct {
	Skills          float64 `json:"skills"`
	SummaryFinal    float64 `json:"summary_final"`
	ExperienceFinal float64 `json:"experience_final"`
	EducationFinal  float64 `json:"education_final"`
	Total           float64 `json:"total"`

	// Raw (pre-normalization) values, kept for diagnostics.
	SummaryRaw    float64 `json:"summary_raw"`
	ExperienceRaw float64 `json:"experience_raw"`
	EducationRaw  float64 `json:"education_raw"`
}

// Candidate is one parsed source document representing a person's résumé.
// It is created by the segmentation and enrichment stage; the scoring stage
// attaches Scores; it is not mutated afterward except to receive Summary.
type Candidate struct {
	ID string `json:"id"` // source filename

	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Skills     string `json:"skills"`
	Education  string `json:"education"`
	Experience string `json:"experience"`

	// SkillsList is derived from Skills: comma-split, trimmed, empty-filtered.
	SkillsList []string `json:"skills_list"`

	// ExperienceEnriched holds one block per recognized date range, or a
	// single zero-year block wrapping the whole experience text.
	ExperienceEnriched []RoleBlock `json:"experience_enriched"`

	EducationEnriched EducationRecord `json:"education_enriched"`

	Scores *Scores `json:"scores,omitempty"`

	// AISummary is filled by the summary generator for top candidates.
	AISummary string `json:"ai_summary,omitempty"`
}
