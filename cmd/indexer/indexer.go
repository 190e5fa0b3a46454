package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"eyeai/internal/answer"
	"eyeai/internal/config"
	"eyeai/internal/database"
	"eyeai/internal/embedding"
	"eyeai/internal/index"
	"eyeai/internal/processor"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to .env file")
	docsDir := flag.String("documents", "", "Reference documents directory (default DOCUMENTS_DIR)")
	pgConnString := flag.String("pg", "", "PostgreSQL connection string (default DATABASE_URL)")
	maxConcurrent := flag.Int("max-concurrent", 3, "Maximum concurrent embedding requests (ollama only)")
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	cfg := config.Load()
	if *docsDir != "" {
		cfg.DocumentsDir = *docsDir
	}
	if *pgConnString != "" {
		cfg.DatabaseURL = *pgConnString
	}
	cfg.EmbeddingCache = "postgres"
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully")

	embedder, err := embedding.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	if ollama, ok := embedder.(*embedding.OllamaEmbedder); ok {
		ollama.MaxConcurrent = *maxConcurrent
	}
	log.Printf("Using embedding model: %s", embedder.ModelID())

	proc, err := processor.NewDocumentProcessor(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create document processor: %v", err)
	}

	builder := &index.Builder{
		Embedder:     embedder,
		Cache:        db,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	}

	totalStart := time.Now()
	for _, doc := range answer.Documents() {
		start := time.Now()
		path := filepath.Join(cfg.DocumentsDir, doc)

		chunks, err := proc.ProcessDocument(ctx, path)
		if err != nil {
			log.Fatalf("Failed to process %s: %v", doc, err)
		}

		if _, err := builder.Build(ctx, doc, chunks); err != nil {
			log.Fatalf("Failed to index %s: %v", doc, err)
		}

		stored, err := db.CountChunks(ctx, doc)
		if err != nil {
			log.Printf("Warning: failed to count chunks for %s: %v", doc, err)
		}
		log.Printf("Indexed %s: %d chunks (%d stored) in %v", doc, len(chunks), stored, time.Since(start))
	}

	log.Printf("Indexing completed in %v", time.Since(totalStart))
}
