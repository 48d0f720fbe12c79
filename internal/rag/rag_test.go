package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/vector"
)

// stubEmbedder returns canned vectors per text, falling back to an error on
// unknown text.
type stubEmbedder struct {
	vecs map[string][]float32
	dims int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := e.vecs[text]
	if !ok {
		return nil, fmt.Errorf("stub embedder: no vector for %q", text)
	}
	return v, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int { return e.dims }
func (e *stubEmbedder) Close() error    { return nil }

func scoredCandidate(id string) *models.Candidate {
	return &models.Candidate{
		ID:         id,
		Title:      "senior accountant",
		Summary:    "closing and reporting",
		SkillsList: []string{"sap", "excel", "sql", "vat", "ifrs", "gaap", "tax", "audit", "budgeting", "forecasting"},
		ExperienceEnriched: []models.RoleBlock{
			{Role: "senior accountant", Years: 2.5, Content: "led monthly closing"},
		},
		EducationEnriched: models.EducationRecord{
			Institutions: []string{"state university"},
			CertCount:    1,
			Content:      "bachelor of accounting",
		},
		Scores: &models.Scores{
			Skills: 0.8, SummaryFinal: 0.7, ExperienceFinal: 0.9,
			EducationFinal: 0.6, Total: 0.82,
		},
	}
}

func TestIngestCandidates_ChunksPerSection(t *testing.T) {
	in := NewIngestor(embedding.NewMockEmbedder(16), 600, 100, 8)
	in.IngestCandidates([]*models.Candidate{scoredCandidate("cv1")})

	counts := map[string]int{}
	for _, c := range in.Chunks() {
		counts[c.Meta.Section]++
		if c.Meta.CandidateID != "cv1" {
			t.Errorf("chunk candidate = %q, want cv1", c.Meta.CandidateID)
		}
		if c.ID == "" {
			t.Error("chunk has empty ID")
		}
	}

	// 10 skills at 8 per chunk makes 2 chunks; everything else is 1.
	want := map[string]int{"title": 1, "summary": 1, "skills": 2, "experience": 1, "education": 1}
	for section, n := range want {
		if counts[section] != n {
			t.Errorf("%s chunks = %d, want %d", section, counts[section], n)
		}
	}
}

func TestIngestCandidates_TitleHasNoSectionScore(t *testing.T) {
	in := NewIngestor(embedding.NewMockEmbedder(16), 600, 100, 8)
	in.IngestCandidates([]*models.Candidate{scoredCandidate("cv1")})
	for _, c := range in.Chunks() {
		if c.Meta.Section == models.SectionTitle {
			if c.Meta.HasSectionScore {
				t.Error("title chunk should have no section score")
			}
			return
		}
	}
	t.Fatal("no title chunk ingested")
}

func TestIngestCandidates_LongExperienceSplits(t *testing.T) {
	c := scoredCandidate("cv1")
	c.ExperienceEnriched = []models.RoleBlock{
		{Role: "accountant", Years: 3, Content: strings.Repeat("a", 1300)},
	}

	in := NewIngestor(embedding.NewMockEmbedder(16), 600, 100, 8)
	in.IngestCandidates([]*models.Candidate{c})

	var subs []*models.Chunk
	for _, ch := range in.Chunks() {
		if ch.Meta.Section == models.SectionExperience {
			subs = append(subs, ch)
		}
	}
	// Windows start at 0, 500, 1000: lengths 600, 600, 300.
	if len(subs) != 3 {
		t.Fatalf("experience chunks = %d, want 3", len(subs))
	}
	for i, ch := range subs {
		if !ch.Meta.IsSub || ch.Meta.SubChunk != i {
			t.Errorf("chunk %d: IsSub=%v SubChunk=%d", i, ch.Meta.IsSub, ch.Meta.SubChunk)
		}
		if ch.Meta.Role != "accountant" || ch.Meta.ExpIndex != 0 {
			t.Errorf("chunk %d meta: role=%q expIndex=%d", i, ch.Meta.Role, ch.Meta.ExpIndex)
		}
	}
	if len(subs[0].Text) != 600 || len(subs[1].Text) != 600 || len(subs[2].Text) != 300 {
		t.Errorf("chunk lengths = %d, %d, %d", len(subs[0].Text), len(subs[1].Text), len(subs[2].Text))
	}
	// Overlap: second window re-reads the last 100 chars of the first.
	if subs[0].Text[500:] != subs[1].Text[:100] {
		t.Error("adjacent chunks do not overlap by 100 chars")
	}
}

func TestBuildIndex(t *testing.T) {
	in := NewIngestor(embedding.NewMockEmbedder(16), 600, 100, 8)
	in.IngestCandidates([]*models.Candidate{scoredCandidate("cv1")})

	idx, err := in.BuildIndex(context.Background())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	defer idx.Close()
	if idx.Size() != len(in.Chunks()) {
		t.Errorf("index size = %d, want %d", idx.Size(), len(in.Chunks()))
	}
}

// oneHot returns a dims-length unit vector with a single 1 at position i.
func oneHot(dims, i int) []float32 {
	v := make([]float32, dims)
	v[i] = 1
	return v
}

func TestRetriever_OneChunkPerCandidate(t *testing.T) {
	ctx := context.Background()
	dims := 8

	// Three candidates, two chunks each; all chunks of cv1 outrank
	// everything else, but only one may survive per candidate.
	var chunks []*models.Chunk
	var ids []string
	var vecs [][]float32
	add := func(id, candidateID string, vec []float32) {
		chunks = append(chunks, &models.Chunk{
			ID:   id,
			Text: "text " + id,
			Meta: models.ChunkMeta{CandidateID: candidateID, Section: models.SectionSummary, HasSectionScore: true},
		})
		ids = append(ids, id)
		vecs = append(vecs, vec)
	}
	add("c1a", "cv1", oneHot(dims, 0))
	add("c1b", "cv1", oneHot(dims, 0))
	add("c2a", "cv2", oneHot(dims, 1))
	add("c2b", "cv2", oneHot(dims, 1))
	add("c3a", "cv3", oneHot(dims, 2))

	idx, err := vector.NewMemoryIndex(dims)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}

	emb := &stubEmbedder{dims: dims, vecs: map[string][]float32{
		"who closed the books": oneHot(dims, 0),
	}}
	r := NewRetriever(idx, chunks, emb, 2)

	got, err := r.Query(ctx, "who closed the books")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want topK=2", len(got))
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.Meta.CandidateID] {
			t.Errorf("candidate %s appears twice", c.Meta.CandidateID)
		}
		seen[c.Meta.CandidateID] = true
	}
	if got[0].ID != "c1a" {
		t.Errorf("best hit = %s, want c1a (first of the top candidate)", got[0].ID)
	}
}

func TestRetriever_FewerCandidatesThanTopK(t *testing.T) {
	ctx := context.Background()
	dims := 4
	chunks := []*models.Chunk{
		{ID: "only", Text: "text", Meta: models.ChunkMeta{CandidateID: "cv1"}},
	}
	idx, _ := vector.NewMemoryIndex(dims)
	defer idx.Close()
	_ = idx.Add(ctx, []string{"only"}, [][]float32{oneHot(dims, 0)})

	emb := &stubEmbedder{dims: dims, vecs: map[string][]float32{"q": oneHot(dims, 0)}}
	r := NewRetriever(idx, chunks, emb, 5)

	got, err := r.Query(ctx, "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("results = %d, want 1", len(got))
	}
}

func TestBuildContext(t *testing.T) {
	chunks := []*models.Chunk{
		{
			ID:   "a",
			Text: "senior accountant",
			Meta: models.ChunkMeta{CandidateID: "cv1", Section: "title", OverallScore: 0.82},
		},
		{
			ID:   "b",
			Text: "led monthly closing",
			Meta: models.ChunkMeta{CandidateID: "cv1", Section: "experience", SectionScore: 0.9, OverallScore: 0.82, HasSectionScore: true},
		},
		{
			ID:   "c",
			Text: "sap, excel",
			Meta: models.ChunkMeta{CandidateID: "cv2", Section: "skills", SectionScore: 0.75, OverallScore: 0.5, HasSectionScore: true},
		},
	}

	got := BuildContext(chunks)
	want := "=== Candidate: cv1 | Overall Score: 0.82 ===\n" +
		"- Section: title (section_score= )\n" +
		"senior accountant\n" +
		"- Section: experience (section_score=0.90)\n" +
		"led monthly closing\n\n" +
		"=== Candidate: cv2 | Overall Score: 0.50 ===\n" +
		"- Section: skills (section_score=0.75)\n" +
		"sap, excel"
	if got != want {
		t.Errorf("context =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("empty context = %q", got)
	}
}
