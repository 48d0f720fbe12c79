package models

import "math"

// CategoryWeights weights the four scoring categories. The weights are
// expected to sum to 1.0; totals lose their share-of-max reading otherwise.
type CategoryWeights struct {
	Experience float64 `json:"experience" yaml:"experience"`
	Skills     float64 `json:"skills" yaml:"skills"`
	Summary    float64 `json:"summary" yaml:"summary"`
	Education  float64 `json:"education" yaml:"education"`
}

// Sum returns the sum of the four weights.
func (w CategoryWeights) Sum() float64 {
	return w.Experience + w.Skills + w.Summary + w.Education
}

// Balanced reports whether the weights sum to 1.0 within a small tolerance.
func (w CategoryWeights) Balanced() bool {
	return math.Abs(w.Sum()-1.0) < 1e-6
}

// JobProfile is the scoring target a batch of candidates is matched against.
type JobProfile struct {
	Title             string          `json:"title" yaml:"title"`
	Description       string          `json:"description" yaml:"description"`
	RequiredSkills    []string        `json:"required_skills" yaml:"required_skills"`
	HighlightKeywords []string        `json:"highlight_keywords" yaml:"highlight_keywords"`
	Weights           CategoryWeights `json:"weights" yaml:"weights"`
}
