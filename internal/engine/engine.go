// Package engine orchestrates one full scoring pass: load resumes, rank
// them against the job profile, and build the retrieval session over the
// top candidates. The current session is swapped atomically so readers
// always see a complete, consistent pass.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/ai"
	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/pipeline"
	"github.com/hyperjump/erabu/internal/rag"
	"github.com/hyperjump/erabu/internal/scoring"
	"github.com/hyperjump/erabu/internal/vector"
)

// ErrNoSession is returned when a query arrives before the first scan.
var ErrNoSession = errors.New("no scoring session yet: run a scan first")

// ErrNoAssistant is returned when an AI operation is requested but no
// assistant was configured.
var ErrNoAssistant = errors.New("ai assistant is not configured")

// Session is the immutable result of one scoring pass.
type Session struct {
	Dir        string
	Candidates []*models.Candidate
	Chunks     []*models.Chunk
	Retriever  *rag.Retriever
	Index      vector.Index
	BuiltAt    time.Time
}

// Engine runs scoring passes and serves queries against the latest one.
type Engine struct {
	cfg       *config.Config
	embedder  embedding.Embedder
	pipe      *pipeline.Pipeline
	assistant *ai.Assistant // nil when AI is not configured
	logger    *zap.Logger

	mu      sync.RWMutex
	session *Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAssistant enables AI summaries and question answering.
func WithAssistant(a *ai.Assistant) Option {
	return func(e *Engine) {
		e.assistant = a
	}
}

// NewEngine creates an engine. The embedder is shared across scoring and
// retrieval so the embedding cache is shared too.
func NewEngine(cfg *config.Config, embedder embedding.Embedder, pipe *pipeline.Pipeline, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		embedder: embedder,
		pipe:     pipe,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rescan runs a full scoring pass over dir and makes the result the
// current session. The previous session's index is closed once replaced.
func (e *Engine) Rescan(ctx context.Context, dir string) (*Session, error) {
	started := time.Now()

	candidates, err := e.pipe.LoadFolder(dir)
	if err != nil {
		return nil, err
	}

	scorer, err := scoring.NewScorer(ctx, e.cfg.Job.Profile(), e.embedder,
		e.cfg.Scoring.TitleSimThreshold, scoring.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	ranked, err := scorer.Rank(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	if topN := e.cfg.Scoring.TopN; topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	ingestor := rag.NewIngestor(e.embedder,
		e.cfg.RAG.MaxExpChars, e.cfg.RAG.ExpOverlap, e.cfg.RAG.SkillsPerChunk,
		rag.WithIngestorLogger(e.logger))
	ingestor.IngestCandidates(ranked)

	index, err := ingestor.BuildIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("build chunk index: %w", err)
	}

	session := &Session{
		Dir:        dir,
		Candidates: ranked,
		Chunks:     ingestor.Chunks(),
		Retriever: rag.NewRetriever(index, ingestor.Chunks(), e.embedder,
			e.cfg.RAG.TopK, rag.WithRetrieverLogger(e.logger)),
		Index:   index,
		BuiltAt: time.Now(),
	}

	e.mu.Lock()
	old := e.session
	e.session = session
	e.mu.Unlock()
	if old != nil {
		_ = old.Index.Close()
	}

	e.logger.Info("scoring pass complete",
		zap.String("dir", dir),
		zap.Int("scanned", len(candidates)),
		zap.Int("ranked", len(ranked)),
		zap.Int("chunks", len(session.Chunks)),
		zap.Duration("took", time.Since(started)))
	return session, nil
}

// Session returns the current session, or nil before the first scan.
func (e *Engine) Session() *Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session
}

// Ask retrieves relevant chunks for the question and has the assistant
// answer from them. The chunks used are returned alongside the answer.
func (e *Engine) Ask(ctx context.Context, question string) (string, []*models.Chunk, error) {
	if e.assistant == nil {
		return "", nil, ErrNoAssistant
	}
	session := e.Session()
	if session == nil {
		return "", nil, ErrNoSession
	}

	chunks, err := session.Retriever.Query(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("retrieve context: %w", err)
	}
	answer, err := e.assistant.Answer(ctx, question, chunks)
	if err != nil {
		return "", nil, err
	}
	return answer, chunks, nil
}

// Summarize fills in AI summaries for every candidate in the current
// session that does not have one yet.
func (e *Engine) Summarize(ctx context.Context) error {
	if e.assistant == nil {
		return ErrNoAssistant
	}
	session := e.Session()
	if session == nil {
		return ErrNoSession
	}

	job := e.cfg.Job.Profile()
	for _, c := range session.Candidates {
		if c.AISummary != "" {
			continue
		}
		summary, err := e.assistant.SummarizeCandidate(ctx, job, c)
		if err != nil {
			return fmt.Errorf("summarize %s: %w", c.ID, err)
		}
		c.AISummary = summary
	}
	return nil
}
