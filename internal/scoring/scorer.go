// Package scoring ranks candidates against a job profile. Scoring runs in
// two stages: a title gate that drops candidates whose title has nothing to
// do with the job, then four category scores (skills, summary, education,
// experience) combined into a weighted total.
package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/parser"
	"github.com/hyperjump/erabu/internal/vector"
	"github.com/hyperjump/erabu/pkg/utils"
)

// fluffRe strips filler words before summary fragments are embedded, so
// similarity reflects substance rather than resume boilerplate.
var fluffRe = regexp.MustCompile(`\b(?:professional|dedicated|hardworking|seeking|opportunity|proven|years|experience)\b`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// degreeWeights maps degree keywords to their education multiplier. Matched
// by substring against the education content; the highest match wins.
var degreeWeights = []struct {
	keyword string
	weight  float64
}{
	{"phd", 2.0}, {"doctorate", 2.0},
	{"master", 1.5}, {"mba", 1.5},
	{"bachelor", 1.2}, {"ba", 1.2}, {"bs", 1.2},
	{"diploma", 1.0}, {"d3", 1.0},
	{"high school", 0.5},
}

// Scorer scores candidates against one job profile. The job title and
// description embeddings are computed once at construction.
type Scorer struct {
	job               *models.JobProfile
	embedder          embedding.Embedder
	titleSimThreshold float64
	logger            *zap.Logger

	jobTitleEmb []float32
	jobDescEmb  []float32
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		s.logger = logger
	}
}

// NewScorer creates a scorer for the given job profile and pre-encodes the
// job title and description.
func NewScorer(ctx context.Context, job *models.JobProfile, embedder embedding.Embedder, titleSimThreshold float64, opts ...Option) (*Scorer, error) {
	s := &Scorer{
		job:               job,
		embedder:          embedder,
		titleSimThreshold: titleSimThreshold,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	titleEmb, err := embedder.Embed(ctx, strings.ToLower(strings.TrimSpace(job.Title)))
	if err != nil {
		return nil, fmt.Errorf("embed job title: %w", err)
	}
	descEmb, err := embedder.Embed(ctx, job.Description)
	if err != nil {
		return nil, fmt.Errorf("embed job description: %w", err)
	}
	s.jobTitleEmb = titleEmb
	s.jobDescEmb = descEmb
	return s, nil
}

// PassesTitle reports whether a candidate title survives the gate: a
// substring match in either direction passes outright, otherwise the title
// embedding must reach the similarity threshold.
func (s *Scorer) PassesTitle(ctx context.Context, title string) (bool, error) {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false, nil
	}
	jt := strings.ToLower(strings.TrimSpace(s.job.Title))
	if strings.Contains(t, jt) || strings.Contains(jt, t) {
		return true, nil
	}
	emb, err := s.embedder.Embed(ctx, t)
	if err != nil {
		return false, fmt.Errorf("embed candidate title: %w", err)
	}
	return vector.CosineSimilarity(emb, s.jobTitleEmb) >= s.titleSimThreshold, nil
}

// ScoreSkills scores candidate skills against the required list. Exact
// matches count 1.0 each; the rest are matched greedily one-to-one by
// similarity, each candidate skill consumable once. The sum is divided by
// the number of required skills and rounded to 4 places.
func (s *Scorer) ScoreSkills(ctx context.Context, cvSkills []string) (float64, error) {
	if len(s.job.RequiredSkills) == 0 || len(cvSkills) == 0 {
		return 0, nil
	}

	cvLow := make([]string, len(cvSkills))
	for i, sk := range cvSkills {
		cvLow[i] = strings.ToLower(strings.TrimSpace(sk))
	}
	cvSet := make(map[string]bool, len(cvLow))
	for _, sk := range cvLow {
		cvSet[sk] = true
	}

	var score float64
	var remain []string
	for _, req := range s.job.RequiredSkills {
		req = strings.ToLower(strings.TrimSpace(req))
		if cvSet[req] {
			score++
		} else {
			remain = append(remain, req)
		}
	}

	if len(remain) > 0 {
		cvEmbs, err := s.embedder.EmbedBatch(ctx, cvLow)
		if err != nil {
			return 0, fmt.Errorf("embed candidate skills: %w", err)
		}
		used := make(map[int]bool, len(cvEmbs))
		for _, req := range remain {
			reqEmb, err := s.embedder.Embed(ctx, req)
			if err != nil {
				return 0, fmt.Errorf("embed required skill: %w", err)
			}
			bestIdx, bestSim := -1, -1.0
			for i, cvEmb := range cvEmbs {
				if used[i] {
					continue
				}
				if sim := vector.CosineSimilarity(reqEmb, cvEmb); sim > bestSim {
					bestIdx, bestSim = i, sim
				}
			}
			if bestIdx >= 0 && bestSim > 0 {
				score += bestSim
				used[bestIdx] = true
			}
		}
	}

	return utils.Round(score/float64(len(s.job.RequiredSkills)), 4), nil
}

// ScoreSummaryRaw scores a summary as the best fragment similarity against
// the job description plus 0.5 per highlight keyword present. Fragments are
// sentence-ish pieces longer than 10 characters.
func (s *Scorer) ScoreSummaryRaw(ctx context.Context, summary string) (float64, error) {
	if summary == "" {
		return 0, nil
	}

	var fragments []string
	for _, c := range strings.Split(strings.ReplaceAll(summary, "\n", "."), ".") {
		if c = strings.TrimSpace(c); len(c) > 10 {
			fragments = append(fragments, c)
		}
	}
	if len(fragments) == 0 {
		return 0, nil
	}

	cleaned := make([]string, len(fragments))
	for i, f := range fragments {
		cleaned[i] = stripFluff(f)
	}
	embs, err := s.embedder.EmbedBatch(ctx, cleaned)
	if err != nil {
		return 0, fmt.Errorf("embed summary fragments: %w", err)
	}

	var score float64
	for _, emb := range embs {
		if sim := vector.CosineSimilarity(emb, s.jobDescEmb); sim > score {
			score = sim
		}
	}

	lowSummary := strings.ToLower(summary)
	for _, kw := range s.job.HighlightKeywords {
		if strings.Contains(lowSummary, strings.ToLower(kw)) {
			score += 0.5
		}
	}
	return score, nil
}

// ScoreEducationRaw scores a serialized education record: job-description
// similarity of the content weighted by the best degree keyword, plus 0.1
// per certification. Unparseable input scores zero.
func (s *Scorer) ScoreEducationRaw(ctx context.Context, edu string) (float64, error) {
	rec, ok := parser.ParseEducation(edu)
	if !ok {
		return 0, nil
	}

	weight := 0.5
	lowContent := strings.ToLower(rec.Content)
	for _, dw := range degreeWeights {
		if strings.Contains(lowContent, dw.keyword) && dw.weight > weight {
			weight = dw.weight
		}
	}

	emb, err := s.embedder.Embed(ctx, rec.Content)
	if err != nil {
		return 0, fmt.Errorf("embed education content: %w", err)
	}
	sim := vector.CosineSimilarity(emb, s.jobDescEmb)

	return sim*weight + float64(rec.CertCount)*0.1, nil
}

// ScoreExperienceRaw scores a serialized experience string. Each role block
// contributes relevance (role similarity, content similarity, keyword
// bonus) scaled by a logarithmic duration factor, so long stints matter but
// with diminishing returns.
func (s *Scorer) ScoreExperienceRaw(ctx context.Context, exp string) (float64, error) {
	blocks := parser.ParseExperience(exp)
	if len(blocks) == 0 {
		return 0, nil
	}

	var total float64
	for _, blk := range blocks {
		duration := math.Log1p(blk.Years) + 1

		roleEmb, err := s.embedder.Embed(ctx, blk.Role)
		if err != nil {
			return 0, fmt.Errorf("embed role: %w", err)
		}
		roleSim := vector.CosineSimilarity(roleEmb, s.jobTitleEmb)

		var fragments []string
		for _, c := range strings.Split(blk.Content, ".") {
			if len(strings.TrimSpace(c)) > 15 {
				fragments = append(fragments, c)
			}
		}

		var contentScore float64
		if len(fragments) > 0 {
			embs, err := s.embedder.EmbedBatch(ctx, fragments)
			if err != nil {
				return 0, fmt.Errorf("embed experience fragments: %w", err)
			}
			sims := make([]float64, len(embs))
			for i, emb := range embs {
				sims[i] = vector.CosineSimilarity(emb, s.jobDescEmb)
			}
			sort.Sort(sort.Reverse(sort.Float64Slice(sims)))
			contentScore = math.Max(0, sims[0])
			for _, sim := range sims[1:] {
				if sim > 0.5 {
					contentScore += sim * 0.2
				}
			}
		}

		var kwBonus float64
		lowContent := strings.ToLower(blk.Content)
		for _, kw := range s.job.HighlightKeywords {
			if strings.Contains(lowContent, strings.ToLower(kw)) {
				kwBonus += 0.2
			}
		}

		relevance := roleSim*5 + contentScore*3 + kwBonus
		total += relevance * duration
	}

	return utils.Round(total, 4), nil
}

// Rank gates candidates by title, scores the survivors, normalizes the
// summary, education and experience categories across the pool, and returns
// the survivors sorted by total score, best first. Input candidates are
// not modified; gated-out candidates are simply absent from the result.
func (s *Scorer) Rank(ctx context.Context, candidates []*models.Candidate) ([]*models.Candidate, error) {
	var pool []*models.Candidate
	for _, c := range candidates {
		ok, err := s.PassesTitle(ctx, c.Title)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug("title gate dropped candidate",
				zap.String("candidate_id", c.ID),
				zap.String("title", c.Title))
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	for _, c := range pool {
		scores := &models.Scores{}

		var err error
		if scores.Skills, err = s.ScoreSkills(ctx, c.SkillsList); err != nil {
			return nil, fmt.Errorf("score skills for %s: %w", c.ID, err)
		}
		if scores.SummaryRaw, err = s.ScoreSummaryRaw(ctx, c.Summary); err != nil {
			return nil, fmt.Errorf("score summary for %s: %w", c.ID, err)
		}
		edu := parser.FormatEducation(c.EducationEnriched)
		if scores.EducationRaw, err = s.ScoreEducationRaw(ctx, edu); err != nil {
			return nil, fmt.Errorf("score education for %s: %w", c.ID, err)
		}
		exp := parser.FormatExperience(c.ExperienceEnriched)
		if scores.ExperienceRaw, err = s.ScoreExperienceRaw(ctx, exp); err != nil {
			return nil, fmt.Errorf("score experience for %s: %w", c.ID, err)
		}
		c.Scores = scores
	}

	normalizePool(pool, s.job.Weights)

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Scores.Total > pool[j].Scores.Total
	})

	s.logger.Info("ranked candidates",
		zap.Int("gated_in", len(pool)),
		zap.Int("gated_out", len(candidates)-len(pool)))
	return pool, nil
}

// stripFluff removes filler words and collapses whitespace.
func stripFluff(text string) string {
	text = fluffRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
