package scoring

import "github.com/hyperjump/erabu/internal/models"

// normalizePool min-max normalizes the summary, education, and experience
// raw scores across the pool and fills in the weighted totals. When a
// category is flat across the pool everyone gets 0.5 so the category stays
// neutral instead of collapsing to 0 or 1. Skills are already on a 0..1
// scale and are deliberately left unnormalized.
func normalizePool(pool []*models.Candidate, weights models.CategoryWeights) {
	minMax(pool,
		func(s *models.Scores) float64 { return s.SummaryRaw },
		func(s *models.Scores, v float64) { s.SummaryFinal = v })
	minMax(pool,
		func(s *models.Scores) float64 { return s.EducationRaw },
		func(s *models.Scores, v float64) { s.EducationFinal = v })
	minMax(pool,
		func(s *models.Scores) float64 { return s.ExperienceRaw },
		func(s *models.Scores, v float64) { s.ExperienceFinal = v })

	for _, c := range pool {
		s := c.Scores
		s.Total = s.ExperienceFinal*weights.Experience +
			s.Skills*weights.Skills +
			s.SummaryFinal*weights.Summary +
			s.EducationFinal*weights.Education
	}
}

func minMax(pool []*models.Candidate, get func(*models.Scores) float64, set func(*models.Scores, float64)) {
	if len(pool) == 0 {
		return
	}
	mn, mx := get(pool[0].Scores), get(pool[0].Scores)
	for _, c := range pool[1:] {
		v := get(c.Scores)
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	for _, c := range pool {
		if mx == mn {
			set(c.Scores, 0.5)
		} else {
			set(c.Scores, (get(c.Scores)-mn)/(mx-mn))
		}
	}
}
