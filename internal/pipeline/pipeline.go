// Package pipeline turns a folder of resume files into candidates ready
// for scoring: extract text, segment into sections, and enrich the
// experience and education sections.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/extract"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/parser"
)

// Pipeline loads and parses resume files.
type Pipeline struct {
	extractor  *extract.Extractor
	extensions map[string]bool
	logger     *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline that accepts files with the given
// extensions (leading dot, e.g. ".pdf").
func NewPipeline(extractor *extract.Extractor, extensions []string, opts ...Option) *Pipeline {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	p := &Pipeline{
		extractor:  extractor,
		extensions: extSet,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadFolder parses every accepted resume file directly under dir, in
// filename order. Files that fail extraction are logged and skipped rather
// than failing the whole scan.
func (p *Pipeline) LoadFolder(dir string) ([]*models.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read resume folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if p.extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	candidates := make([]*models.Candidate, 0, len(names))
	for _, name := range names {
		text, err := p.extractor.Extract(filepath.Join(dir, name))
		if err != nil {
			p.logger.Warn("skipping unreadable resume",
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		candidates = append(candidates, ParseResume(name, text))
	}

	p.logger.Info("loaded resumes",
		zap.String("dir", dir),
		zap.Int("files", len(names)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// ParseResume turns one resume's raw text into a candidate. The candidate
// ID is the cleaned file name. A missing title section falls back to a
// guess from the experience text.
func ParseResume(fileName, text string) *models.Candidate {
	sections := parser.Segment(text)

	// Sections are assembled from cleaned lines; one more pass keeps the
	// joined text in canonical form.
	for k, v := range sections {
		sections[k] = parser.CleanLine(v)
	}

	title := sections[models.SectionTitle]
	if title == "" {
		title = parser.InferTitleFromExperience(sections[models.SectionExperience])
	}

	var skillsList []string
	for _, s := range strings.Split(sections[models.SectionSkills], ",") {
		if s = strings.TrimSpace(s); s != "" {
			skillsList = append(skillsList, s)
		}
	}

	return &models.Candidate{
		ID:                 parser.CleanLine(fileName),
		Title:              title,
		Summary:            sections[models.SectionSummary],
		Skills:             sections[models.SectionSkills],
		Education:          sections[models.SectionEducation],
		Experience:         sections[models.SectionExperience],
		SkillsList:         skillsList,
		ExperienceEnriched: parser.EnrichExperience(title, sections[models.SectionExperience]),
		EducationEnriched:  parser.EnrichEducation(sections[models.SectionEducation]),
	}
}
