// Package ai generates candidate summaries and grounded answers through an
// external language model. The Generator interface keeps the package
// testable without network access; internal/ai/gemini provides the real
// implementation.
package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/parser"
	"github.com/hyperjump/erabu/internal/rag"
	"github.com/hyperjump/erabu/pkg/utils"
)

// systemPrompt frames every request sent to the model.
const systemPrompt = "You are an HR assistant. Analyze CVs quietly and respectfully. Do not make up information."

// Generator produces text from a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Assistant builds HR prompts and runs them through a Generator.
type Assistant struct {
	gen           Generator
	maxFieldChars int
	logger        *zap.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// NewAssistant creates an assistant. maxFieldChars caps each resume field
// embedded in a prompt so a single verbose CV cannot blow the context
// window.
func NewAssistant(gen Generator, maxFieldChars int, opts ...Option) *Assistant {
	a := &Assistant{
		gen:           gen,
		maxFieldChars: maxFieldChars,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SummarizeCandidate asks the model for a short summary with strengths and
// weaknesses of one candidate relative to the job.
func (a *Assistant) SummarizeCandidate(ctx context.Context, job *models.JobProfile, c *models.Candidate) (string, error) {
	prompt := systemPrompt + "\n" + a.buildSummaryPrompt(job, c)

	a.logger.Debug("generating candidate summary", zap.String("candidate_id", c.ID))
	out, err := a.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize candidate %s: %w", c.ID, err)
	}
	return strings.TrimSpace(out), nil
}

// Answer asks the model a question grounded strictly in the retrieved
// chunks.
func (a *Assistant) Answer(ctx context.Context, question string, chunks []*models.Chunk) (string, error) {
	prompt := buildAnswerPrompt(question, chunks)

	a.logger.Debug("answering question", zap.Int("context_chunks", len(chunks)))
	out, err := a.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (a *Assistant) buildSummaryPrompt(job *models.JobProfile, c *models.Candidate) string {
	clip := func(s string) string { return utils.ClipChars(s, a.maxFieldChars) }

	content := fmt.Sprintf(
		"Title: %s\nSummary: %s\nExperience: %s\nSkills: %s\nEducation: %s",
		clip(c.Title),
		clip(c.Summary),
		clip(parser.FormatExperience(c.ExperienceEnriched)),
		clip(c.Skills),
		clip(parser.FormatEducation(c.EducationEnriched)),
	)

	return fmt.Sprintf(
		"Job Title: %s\n"+
			"Job Description: %s\n"+
			"Required Skills: %s\n\n"+
			"CV Information:\n%s\n\n"+
			"Provide a short summary in English and highlight the strengths and weaknesses of the candidate in relation to the job.\n"+
			"Do NOT include any preamble like \"Here is the summary\".\n"+
			"Output only the requested sections in this format:\n"+
			"\nSummary:\n"+
			"\nStrengths:\n"+
			"\nWeaknesses:\n",
		job.Title, job.Description, strings.Join(job.RequiredSkills, ", "), content)
}

func buildAnswerPrompt(question string, chunks []*models.Chunk) string {
	return fmt.Sprintf(
		"You are a professional HR analyst.\n"+
			"Answer ONLY based on the provided CV context.\n\n"+
			"If the question asks WHY or COMPARE:\n"+
			"- Provide reasoning and comparison.\n"+
			"- Use experience, skills, and role relevance.\n\n"+
			"If the question asks WHO:\n"+
			"- Identify the candidate and explain briefly.\n\n"+
			"Context:\n%s\n\n"+
			"Question:\n%s\n\n"+
			"Answer:",
		rag.BuildContext(chunks), question)
}
