package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/erabu/internal/ai"
	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/extract"
	"github.com/hyperjump/erabu/internal/pipeline"
)

// cannedGenerator returns a fixed response for any prompt.
type cannedGenerator struct {
	response string
	prompts  []string
}

func (g *cannedGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Job: config.JobConfig{
			Title:          "accountant",
			Description:    "handle monthly closing and financial reporting",
			RequiredSkills: []string{"sap", "excel"},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func writeResume(t *testing.T, dir, name, title string) {
	t.Helper()
	content := title + "\nSummary\nFinance professional with a closing background here.\n" +
		"Experience\nAcme Corp 2019 to 2021\nOwned the monthly close process end to end.\n" +
		"Skills\nsap\nexcel\nEducation\nBachelor of Accounting, State University 2015\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestEngine(opts ...Option) *Engine {
	cfg := testConfig()
	embedder := embedding.NewMockEmbedder(64)
	pipe := pipeline.NewPipeline(extract.NewExtractor(), cfg.Watch.Extensions)
	return NewEngine(cfg, embedder, pipe, opts...)
}

func TestRescan(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "alice.txt", "Senior Accountant")
	writeResume(t, dir, "bob.txt", "Staff Accountant")

	e := newTestEngine()
	if e.Session() != nil {
		t.Fatal("session should be nil before first scan")
	}

	session, err := e.Rescan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if len(session.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(session.Candidates))
	}
	for _, c := range session.Candidates {
		if c.Scores == nil {
			t.Errorf("candidate %s has no scores", c.ID)
		}
	}
	if len(session.Chunks) == 0 {
		t.Error("session has no chunks")
	}
	if session.Index.Size() != len(session.Chunks) {
		t.Errorf("index size = %d, chunks = %d", session.Index.Size(), len(session.Chunks))
	}
	if e.Session() != session {
		t.Error("Session() does not return the scanned session")
	}
}

func TestRescan_SwapsSession(t *testing.T) {
	dir1 := t.TempDir()
	writeResume(t, dir1, "alice.txt", "Senior Accountant")
	dir2 := t.TempDir()
	writeResume(t, dir2, "carol.txt", "Accountant")

	e := newTestEngine()
	ctx := context.Background()

	first, err := e.Rescan(ctx, dir1)
	if err != nil {
		t.Fatalf("first Rescan: %v", err)
	}
	second, err := e.Rescan(ctx, dir2)
	if err != nil {
		t.Fatalf("second Rescan: %v", err)
	}
	if e.Session() != second || e.Session() == first {
		t.Error("session was not swapped")
	}
	if second.Candidates[0].ID != "carol.txt" {
		t.Errorf("candidate = %s, want carol.txt", second.Candidates[0].ID)
	}
}

func TestRescan_TopNCut(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeResume(t, dir, name, "Accountant")
	}

	e := newTestEngine()
	e.cfg.Scoring.TopN = 2

	session, err := e.Rescan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if len(session.Candidates) != 2 {
		t.Errorf("candidates = %d, want top 2", len(session.Candidates))
	}
}

func TestAsk(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "alice.txt", "Senior Accountant")

	gen := &cannedGenerator{response: "alice has closing experience."}
	e := newTestEngine(WithAssistant(ai.NewAssistant(gen, 1000)))

	if _, _, err := e.Ask(context.Background(), "who?"); err != ErrNoSession {
		t.Errorf("Ask before scan: err = %v, want ErrNoSession", err)
	}

	if _, err := e.Rescan(context.Background(), dir); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	answer, chunks, err := e.Ask(context.Background(), "who has closing experience?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "alice has closing experience." {
		t.Errorf("answer = %q", answer)
	}
	if len(chunks) == 0 {
		t.Error("no chunks returned")
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "alice.txt") {
		t.Error("prompt missing candidate context")
	}
}

func TestAsk_NoAssistant(t *testing.T) {
	e := newTestEngine()
	if _, _, err := e.Ask(context.Background(), "who?"); err == nil {
		t.Error("expected error without assistant")
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "alice.txt", "Senior Accountant")

	gen := &cannedGenerator{response: "Summary: fine."}
	e := newTestEngine(WithAssistant(ai.NewAssistant(gen, 1000)))

	if _, err := e.Rescan(context.Background(), dir); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if err := e.Summarize(context.Background()); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, c := range e.Session().Candidates {
		if c.AISummary != "Summary: fine." {
			t.Errorf("candidate %s summary = %q", c.ID, c.AISummary)
		}
	}

	// Second call is a no-op: summaries already present.
	calls := len(gen.prompts)
	if err := e.Summarize(context.Background()); err != nil {
		t.Fatalf("Summarize again: %v", err)
	}
	if len(gen.prompts) != calls {
		t.Error("Summarize regenerated existing summaries")
	}
}
