package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	a, err := e.Embed(context.Background(), "senior accountant")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "senior accountant")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	e := NewMockEmbedder(0) // defaults to 384
	if e.Dimensions() != 384 {
		t.Fatalf("dimensions = %d, want 384", e.Dimensions())
	}
	v, err := e.Embed(context.Background(), "finance manager")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("squared norm = %v, want 1.0", sum)
	}
}

func TestMockEmbedder_Batch(t *testing.T) {
	e := NewMockEmbedder(16)
	got, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(got))
	}
	single, _ := e.Embed(context.Background(), "a")
	for i := range single {
		if got[0][i] != single[i] {
			t.Fatal("batch embedding differs from single embedding")
		}
	}
}
