package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"policyqa/internal/chunker"
	"policyqa/internal/config"
	embopenai "policyqa/internal/embedding/openai"
	"policyqa/internal/extract"
	llmopenai "policyqa/internal/llm/openai"
	"policyqa/internal/server"
	"policyqa/internal/service"
	"policyqa/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/policyqa/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	embedder, err := embopenai.NewClient(embopenai.Config{
		BaseURL:    cfg.OpenAI.BaseURL,
		APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
		Model:      cfg.OpenAI.EmbedModel,
		Timeout:    cfg.OpenAI.Timeout(),
		MaxRetries: cfg.OpenAI.MaxRetries,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	chat, err := llmopenai.NewClient(llmopenai.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.ChatModel,
		Timeout:   cfg.OpenAI.Timeout(),
	})
	if err != nil {
		log.Fatalf("chat client init failed: %v", err)
	}

	svc := service.NewQAService(
		chunker.NewFixedChunker(cfg.Retrieval.ChunkSize),
		embedder,
		chat,
		memory.NewStore(),
		cfg.Retrieval.TopK,
	)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     server.New(svc, extract.NewFileExtractor(), cfg.Server.MaxUploadMB).Handler(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
	}
	log.Printf("policyqa listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
