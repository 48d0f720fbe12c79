// Package config provides configuration loading and structs for the erabu engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Job       JobConfig       `yaml:"job"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	RAG       RAGConfig       `yaml:"rag"`
	AI        AIConfig        `yaml:"ai"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// JobConfig holds the job profile candidates are scored against.
type JobConfig struct {
	Title             string                 `yaml:"title"`
	Description       string                 `yaml:"description"`
	RequiredSkills    []string               `yaml:"required_skills"`
	HighlightKeywords []string               `yaml:"highlight_keywords"`
	Weights           models.CategoryWeights `yaml:"weights"`
}

// Profile returns the job profile as a model struct.
func (j *JobConfig) Profile() *models.JobProfile {
	return &models.JobProfile{
		Title:             j.Title,
		Description:       j.Description,
		RequiredSkills:    j.RequiredSkills,
		HighlightKeywords: j.HighlightKeywords,
		Weights:           j.Weights,
	}
}

// ScoringConfig holds scoring stage settings.
type ScoringConfig struct {
	TitleSimThreshold float64 `yaml:"title_sim_threshold"`
	TopN              int     `yaml:"top_n"`
}

// RAGConfig holds chunking and retrieval settings.
type RAGConfig struct {
	TopK           int `yaml:"top_k"`
	MaxExpChars    int `yaml:"max_exp_chars"`
	ExpOverlap     int `yaml:"exp_overlap"`
	SkillsPerChunk int `yaml:"skills_per_chunk"`
}

// AIConfig holds language model settings for summaries and answers.
// APIKeyEnv names the environment variable holding the key; the key itself
// never appears in the config file.
type AIConfig struct {
	APIKeyEnv     string `yaml:"api_key_env"`
	Model         string `yaml:"model"`
	MaxFieldChars int    `yaml:"max_field_chars"`
}

// WatchConfig holds résumé folder watch settings for server mode.
type WatchConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Watch.Directory != "" {
		cfg.Watch.Directory = expandPath(cfg.Watch.Directory, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
