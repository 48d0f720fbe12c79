package models

// Section names used for segmentation and chunk metadata.
const (
	SectionTitle      = "title"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionEducation  = "education"
)

// Sections lists all section names in canonical order.
var Sections = []string{SectionTitle, SectionSummary, SectionExperience, SectionSkills, SectionEducation}

// ChunkMeta is the metadata attached to every retrievable chunk.
// Role, Years, ExpIndex, and SubChunk are set only for experience chunks.
type ChunkMeta struct {
	CandidateID  string  `json:"candidate_id"`
	Section      string  `json:"section"`
	SectionScore float64 `json:"section_score"`
	OverallScore float64 `json:"overall_score"`

	// HasSectionScore is false for title chunks, which carry no per-section
	// score; rendered context prints a blank in that case.
	HasSectionScore bool `json:"has_section_score"`

	Role     string  `json:"role,omitempty"`
	Years    float64 `json:"years,omitempty"`
	ExpIndex int     `json:"exp_index,omitempty"`
	SubChunk int     `json:"sub_chunk,omitempty"`
	IsSub    bool    `json:"is_sub,omitempty"`
}

// Chunk is a retrievable unit of candidate text. Chunks are immutable once
// created and are owned by the index that embeds them.
type Chunk struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Meta ChunkMeta `json:"meta"`
}
