package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/erabu/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Scoring.TitleSimThreshold == 0 {
		cfg.Scoring.TitleSimThreshold = 0.6
	}
	if cfg.Scoring.TopN == 0 {
		cfg.Scoring.TopN = 10
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.MaxExpChars == 0 {
		cfg.RAG.MaxExpChars = 600
	}
	if cfg.RAG.ExpOverlap == 0 {
		cfg.RAG.ExpOverlap = 100
	}
	if cfg.RAG.SkillsPerChunk == 0 {
		cfg.RAG.SkillsPerChunk = 8
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.AI.MaxFieldChars == 0 {
		cfg.AI.MaxFieldChars = 1000
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".docx", ".txt"}
	}
	if cfg.Job.Weights.Sum() == 0 {
		cfg.Job.Weights.Experience = 0.4
		cfg.Job.Weights.Skills = 0.3
		cfg.Job.Weights.Summary = 0.2
		cfg.Job.Weights.Education = 0.1
	}
}
