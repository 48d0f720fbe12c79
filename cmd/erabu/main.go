// Package main is the erabu CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/ai"
	"github.com/hyperjump/erabu/internal/ai/gemini"
	"github.com/hyperjump/erabu/internal/cli"
	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/embedding"
	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/export"
	"github.com/hyperjump/erabu/internal/extract"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/pipeline"
	"github.com/hyperjump/erabu/internal/server"
	"github.com/hyperjump/erabu/internal/watcher"
	"github.com/hyperjump/erabu/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/erabu/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "score":
		runScore()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("erabu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (scoring passes, watcher events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	eng := components.Engine
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Directory != "" {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			cfg.Watch.Directory,
			cfg.Watch.Extensions,
			func() {
				if _, err := eng.Rescan(context.Background(), cfg.Watch.Directory); err != nil {
					logger.Warn("watch rescan failed", zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()

		// Initial pass over files already present.
		if _, err := eng.Rescan(context.Background(), cfg.Watch.Directory); err != nil {
			logger.Warn("initial scoring pass failed", zap.Error(err))
		}
	}

	srv := server.NewServer(eng, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dir := fs.String("dir", "", "resume folder (default: watch.directory from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	exportPath := fs.String("export", "", "write the ranked pool to an Excel report at this path")
	withSummaries := fs.Bool("summaries", false, "generate AI summaries for the ranked pool")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	resumeDir := *dir
	if resumeDir == "" {
		resumeDir = cfg.Watch.Directory
	}
	if resumeDir == "" {
		fmt.Fprintln(os.Stderr, "No resume folder: pass --dir or set watch.directory in config")
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	session, err := components.Engine.Rescan(ctx, resumeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scoring failed: %v\n", err)
		os.Exit(1)
	}
	if *withSummaries {
		if err := components.Engine.Summarize(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "AI summaries failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteRanked(os.Stdout, session.Candidates, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if *exportPath != "" {
		if err := export.ToExcel(session.Candidates, cfg.Job.Profile(), *exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Excel export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written: %s\n", *exportPath)
	}
}

// askArgsReorder moves any flags (and their values) that appear after the
// question to the front so flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	askArgs := askArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = score and answer locally)")
	dir := fs.String("dir", "", "resume folder for local mode (default: watch.directory from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: erabu ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: erabu ask [flags] <question>")
		os.Exit(1)
	}

	format := cli.OutputText
	if *outputFormat == "json" {
		format = cli.OutputJSON
	}

	if *serverURL != "" {
		answer, chunks, err := askViaHTTP(*serverURL, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, answer, chunks, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Local mode: run a scoring pass here and answer against it.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	resumeDir := *dir
	if resumeDir == "" {
		resumeDir = cfg.Watch.Directory
	}
	if resumeDir == "" {
		fmt.Fprintln(os.Stderr, "No resume folder: pass --dir or set watch.directory in config")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if _, err := components.Engine.Rescan(ctx, resumeDir); err != nil {
		fmt.Fprintf(os.Stderr, "Scoring failed: %v\n", err)
		os.Exit(1)
	}
	answer, chunks, err := components.Engine.Ask(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, answer, chunks, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, question string) (string, []*models.Chunk, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Answer string          `json:"answer"`
		Chunks []*models.Chunk `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Answer, out.Chunks, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var pretty bytes.Buffer
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		os.Exit(1)
	}
	if err := json.Indent(&pretty, b, "", "  "); err != nil {
		fmt.Println(string(b))
		return
	}
	fmt.Println(pretty.String())
}

// Components holds initialized services.
type Components struct {
	Embedder embedding.Embedder
	Pipeline *pipeline.Pipeline
	Engine   *engine.Engine
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	if !cfg.Job.Weights.Balanced() {
		logger.Warn("category weights do not sum to 1.0; totals lose their share-of-max reading",
			zap.Float64("sum", cfg.Job.Weights.Sum()))
	}

	// Scores are meaningless without the real encoder, so a missing or broken
	// model is fatal rather than silently degraded.
	embedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder (model %s): %w", cfg.Embedding.ModelPath, err)
	}

	pipeOpts := []pipeline.Option{}
	if debug {
		pipeOpts = append(pipeOpts, pipeline.WithLogger(logger))
	}
	pipe := pipeline.NewPipeline(extract.NewExtractor(), cfg.Watch.Extensions, pipeOpts...)

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if apiKey := os.Getenv(cfg.AI.APIKeyEnv); apiKey != "" {
		gen, err := gemini.NewGenerator(context.Background(), apiKey, cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ai client: %w", err)
		}
		engOpts = append(engOpts, engine.WithAssistant(ai.NewAssistant(gen, cfg.AI.MaxFieldChars)))
		logger.Info("ai assistant enabled", zap.String("model", gen.Model()))
	} else {
		logger.Info("ai assistant disabled", zap.String("api_key_env", cfg.AI.APIKeyEnv))
	}

	eng := engine.NewEngine(cfg, embedder, pipe, engOpts...)
	return &Components{
		Embedder: embedder,
		Pipeline: pipe,
		Engine:   eng,
	}, nil
}

func printUsage() {
	fmt.Println(`erabu - Resume scoring and retrieval engine

Usage:
  erabu serve [flags]            Start the HTTP server (watches the resume folder)
  erabu score [flags]            Score and rank a resume folder
  erabu ask [flags] <question>   Ask a question about the ranked pool
  erabu status [flags]           Show current session status
  erabu version                  Show version
  erabu help                     Show this help

Serve Flags:
  --config string    Config file path (default: /usr/local/etc/erabu/config.yaml)
  --debug            Enable debug logging (scoring passes, watcher events, etc.)

Score Flags:
  --config string    Config file path
  --dir string       Resume folder (default: watch.directory from config)
  --output string    Output format: text or json (default: text)
  --export string    Write the ranked pool to an Excel report at this path
  --summaries        Generate AI summaries for the ranked pool

Ask Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to score and answer locally.
  --dir string       Resume folder for local mode
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  erabu serve
  erabu score --dir ./resumes
  erabu score --dir ./resumes --export report.xlsx --summaries
  erabu ask "who has the strongest audit background?"
  erabu ask --server "" --dir ./resumes "who knows SAP?"
  erabu status`)
}
