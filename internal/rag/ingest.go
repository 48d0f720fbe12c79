// Package rag turns scored candidates into a retrievable chunk index and
// answers questions over it. Candidates are chunked per section, embedded,
// and searched by cosine similarity with at most one chunk per candidate in
// the final results.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/parser"
	"github.com/hyperjump/erabu/internal/vector"
)

// Ingestor collects chunks from scored candidates and builds the vector
// index over them. An Ingestor is single-use: build one per scoring pass.
type Ingestor struct {
	embedder       embedding.Embedder
	maxExpChars    int
	expOverlap     int
	skillsPerChunk int
	logger         *zap.Logger

	chunks []*models.Chunk
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithIngestorLogger sets the logger.
func WithIngestorLogger(logger *zap.Logger) IngestorOption {
	return func(in *Ingestor) {
		in.logger = logger
	}
}

// NewIngestor creates an ingestor. maxExpChars and expOverlap control the
// character windows long experience content is split into; skillsPerChunk
// is how many skills share one chunk.
func NewIngestor(embedder embedding.Embedder, maxExpChars, expOverlap, skillsPerChunk int, opts ...IngestorOption) *Ingestor {
	in := &Ingestor{
		embedder:       embedder,
		maxExpChars:    maxExpChars,
		expOverlap:     expOverlap,
		skillsPerChunk: skillsPerChunk,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// IngestCandidates chunks every candidate, section by section. Candidates
// must already carry scores.
func (in *Ingestor) IngestCandidates(candidates []*models.Candidate) {
	for _, c := range candidates {
		in.ingestTitle(c)
		in.ingestSummary(c)
		in.ingestSkills(c)
		in.ingestExperience(c)
		in.ingestEducation(c)
	}
	in.logger.Debug("ingested candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("chunks", len(in.chunks)))
}

// Chunks returns all chunks collected so far.
func (in *Ingestor) Chunks() []*models.Chunk {
	return in.chunks
}

// BuildIndex embeds every chunk and returns a vector index keyed by chunk ID.
func (in *Ingestor) BuildIndex(ctx context.Context) (vector.Index, error) {
	texts := make([]string, len(in.chunks))
	ids := make([]string, len(in.chunks))
	for i, c := range in.chunks {
		texts[i] = c.Text
		ids[i] = c.ID
	}

	embs, err := in.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	idx, err := vector.NewMemoryIndex(in.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := idx.Add(ctx, ids, embs); err != nil {
		idx.Close()
		return nil, fmt.Errorf("add chunks to index: %w", err)
	}
	return idx, nil
}

func (in *Ingestor) addChunk(text string, meta models.ChunkMeta) {
	in.chunks = append(in.chunks, &models.Chunk{
		ID:   uuid.New().String(),
		Text: strings.TrimSpace(text),
		Meta: meta,
	})
}

// ingestTitle adds the title as one chunk. Title has no category score, so
// HasSectionScore stays false.
func (in *Ingestor) ingestTitle(c *models.Candidate) {
	if c.Title == "" {
		return
	}
	in.addChunk(c.Title, models.ChunkMeta{
		CandidateID:  c.ID,
		Section:      models.SectionTitle,
		OverallScore: c.Scores.Total,
	})
}

func (in *Ingestor) ingestSummary(c *models.Candidate) {
	if c.Summary == "" {
		return
	}
	in.addChunk(c.Summary, models.ChunkMeta{
		CandidateID:     c.ID,
		Section:         models.SectionSummary,
		SectionScore:    c.Scores.SummaryFinal,
		OverallScore:    c.Scores.Total,
		HasSectionScore: true,
	})
}

// ingestSkills batches skills into comma-joined chunks so related skills
// stay retrievable together.
func (in *Ingestor) ingestSkills(c *models.Candidate) {
	skills := c.SkillsList
	for i := 0; i < len(skills); i += in.skillsPerChunk {
		end := i + in.skillsPerChunk
		if end > len(skills) {
			end = len(skills)
		}
		in.addChunk(strings.Join(skills[i:end], ", "), models.ChunkMeta{
			CandidateID:     c.ID,
			Section:         models.SectionSkills,
			SectionScore:    c.Scores.Skills,
			OverallScore:    c.Scores.Total,
			HasSectionScore: true,
		})
	}
}

// ingestExperience adds one chunk per role block; content longer than
// maxExpChars is split into overlapping character windows.
func (in *Ingestor) ingestExperience(c *models.Candidate) {
	for idx, exp := range c.ExperienceEnriched {
		base := models.ChunkMeta{
			CandidateID:     c.ID,
			Section:         models.SectionExperience,
			SectionScore:    c.Scores.ExperienceFinal,
			OverallScore:    c.Scores.Total,
			HasSectionScore: true,
			Role:            exp.Role,
			Years:           exp.Years,
			ExpIndex:        idx,
		}

		if len(exp.Content) <= in.maxExpChars {
			in.addChunk(exp.Content, base)
			continue
		}
		for j, sub := range charChunk(exp.Content, in.maxExpChars, in.expOverlap) {
			meta := base
			meta.SubChunk = j
			meta.IsSub = true
			in.addChunk(sub, meta)
		}
	}
}

// ingestEducation adds the serialized education record as one chunk, so
// retrieval surfaces institutions and certification counts verbatim.
func (in *Ingestor) ingestEducation(c *models.Candidate) {
	in.addChunk(parser.FormatEducation(c.EducationEnriched), models.ChunkMeta{
		CandidateID:     c.ID,
		Section:         models.SectionEducation,
		SectionScore:    c.Scores.EducationFinal,
		OverallScore:    c.Scores.Total,
		HasSectionScore: true,
	})
}

// charChunk splits text into windows of at most maxLen characters, each
// window starting overlap characters before the previous one ended.
func charChunk(text string, maxLen, overlap int) []string {
	step := maxLen - overlap
	if step <= 0 {
		return []string{text}
	}
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + maxLen
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
