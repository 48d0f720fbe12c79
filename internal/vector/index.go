// Package vector provides vector indexing and similarity search.
package vector

import "context"

// Index defines vector storage and similarity search. Indexes are built
// fresh on every scan and live only in memory, so there is no removal or
// persistence surface.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Close() error
}

// Result is a single vector search hit. ID is the chunk ID.
type Result struct {
	ID    string
	Score float64 // Inner product; cosine similarity for normalized vectors.
}
