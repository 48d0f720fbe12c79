package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/erabu/internal/extract"
)

const sampleResume = `Senior Accountant
Summary
Detail oriented accountant with strong closing background.
Experience
Acme Corp jan 2018 to jan 2020
Led monthly closing and audit preparation.
Skills
SAP
Excel
Education
Bachelor of Accounting, State University 2015
`

func writeResume(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestPipeline() *Pipeline {
	return NewPipeline(extract.NewExtractor(), []string{".pdf", ".docx", ".txt"})
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "Alice_CV.txt", sampleResume)
	writeResume(t, dir, "notes.json", "not a resume") // filtered by extension
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline()
	candidates, err := p.LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}

	c := candidates[0]
	if c.ID != "alice_cv.txt" {
		t.Errorf("ID = %q, want alice_cv.txt", c.ID)
	}
	if c.Title != "senior accountant" {
		t.Errorf("Title = %q", c.Title)
	}
	if want := []string{"sap", "excel"}; !reflect.DeepEqual(c.SkillsList, want) {
		t.Errorf("SkillsList = %v, want %v", c.SkillsList, want)
	}
	if len(c.ExperienceEnriched) != 1 {
		t.Fatalf("experience blocks = %d, want 1", len(c.ExperienceEnriched))
	}
	if c.ExperienceEnriched[0].Role != "senior accountant" {
		t.Errorf("role = %q", c.ExperienceEnriched[0].Role)
	}
	if c.ExperienceEnriched[0].Years != 2.0 {
		t.Errorf("years = %v, want 2.0", c.ExperienceEnriched[0].Years)
	}
	if len(c.EducationEnriched.Institutions) != 1 || c.EducationEnriched.Institutions[0] != "state university" {
		t.Errorf("institutions = %v", c.EducationEnriched.Institutions)
	}
}

func TestLoadFolder_FilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "b.txt", sampleResume)
	writeResume(t, dir, "a.txt", sampleResume)

	candidates, err := newTestPipeline().LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	if len(candidates) != 2 || candidates[0].ID != "a.txt" || candidates[1].ID != "b.txt" {
		t.Errorf("order = %v", []string{candidates[0].ID, candidates[1].ID})
	}
}

func TestLoadFolder_SkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeResume(t, dir, "good.txt", sampleResume)
	writeResume(t, dir, "broken.docx", "this is not a zip archive")

	candidates, err := newTestPipeline().LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "good.txt" {
		t.Errorf("candidates = %+v, want only good.txt", candidates)
	}
}

func TestLoadFolder_MissingDir(t *testing.T) {
	if _, err := newTestPipeline().LoadFolder("/nonexistent/resumes"); err == nil {
		t.Error("expected error for missing folder")
	}
}

func TestParseResume_TitleFallback(t *testing.T) {
	text := "Experience\nStaff Accountant at Acme | 2019 to 2021\nHandled reconciliations.\n"
	c := ParseResume("x.txt", text)
	// No title section: first experience segment, years stripped, first 4 words.
	if c.Title == "" {
		t.Fatal("title fallback produced empty title")
	}
	if c.Title != "staff accountant at acme" {
		t.Errorf("title = %q, want staff accountant at acme", c.Title)
	}
}

func TestParseResume_EmptyText(t *testing.T) {
	c := ParseResume("empty.txt", "")
	if c.ID != "empty.txt" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.Title != "" || len(c.SkillsList) != 0 {
		t.Errorf("unexpected content: title=%q skills=%v", c.Title, c.SkillsList)
	}
	if len(c.EducationEnriched.Institutions) != 1 || c.EducationEnriched.Institutions[0] != "unknown" {
		t.Errorf("institutions = %v, want [unknown]", c.EducationEnriched.Institutions)
	}
}
