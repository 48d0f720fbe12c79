package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/vector"
)

// Retriever answers similarity queries over an ingested chunk index. It
// oversamples the raw search and then keeps at most one chunk per
// candidate, so a single verbose resume cannot crowd out the rest of the
// pool.
type Retriever struct {
	index    vector.Index
	chunks   map[string]*models.Chunk
	embedder embedding.Embedder
	topK     int
	logger   *zap.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRetrieverLogger sets the logger.
func WithRetrieverLogger(logger *zap.Logger) RetrieverOption {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// NewRetriever creates a retriever over the given index and chunk set.
func NewRetriever(index vector.Index, chunks []*models.Chunk, embedder embedding.Embedder, topK int, opts ...RetrieverOption) *Retriever {
	byID := make(map[string]*models.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	r := &Retriever{
		index:    index,
		chunks:   byID,
		embedder: embedder,
		topK:     topK,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Query returns up to topK chunks relevant to the query text, best first,
// with at most one chunk per candidate (the first and therefore highest
// scoring one wins).
func (r *Retriever) Query(ctx context.Context, queryText string) ([]*models.Chunk, error) {
	qEmb, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Oversample so per-candidate dedup still has enough to pick from.
	hits, err := r.index.Search(ctx, qEmb, r.topK*3)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	seen := make(map[string]bool)
	var results []*models.Chunk
	for _, hit := range hits {
		chunk, ok := r.chunks[hit.ID]
		if !ok {
			continue
		}
		if !seen[chunk.Meta.CandidateID] {
			results = append(results, chunk)
			seen[chunk.Meta.CandidateID] = true
		}
		if len(results) >= r.topK {
			break
		}
	}

	r.logger.Debug("retrieved chunks",
		zap.String("query", queryText),
		zap.Int("hits", len(hits)),
		zap.Int("results", len(results)))
	return results, nil
}
