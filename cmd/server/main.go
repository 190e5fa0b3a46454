package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eyeai/internal/answer"
	"eyeai/internal/api"
	"eyeai/internal/classifier"
	"eyeai/internal/config"
	"eyeai/internal/database"
	"eyeai/internal/embedding"
	"eyeai/internal/helper"
	"eyeai/internal/index"
	"eyeai/internal/labels"
	"eyeai/internal/llm"
	"eyeai/internal/processor"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to .env file")
	port := flag.Int("port", 0, "HTTP port (default PORT or 5000)")
	modelPath := flag.String("model", "", "Path to the exported ONNX classifier (default MODEL_PATH)")
	docsDir := flag.String("documents", "", "Reference documents directory (default DOCUMENTS_DIR)")
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}
	if *docsDir != "" {
		cfg.DocumentsDir = *docsDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := helper.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// Classifier
	labelMap := labels.Default()
	if cfg.LabelsPath != "" {
		m, err := labels.Load(cfg.LabelsPath)
		if err != nil {
			return fmt.Errorf("failed to load labels: %w", err)
		}
		labelMap = m
	}

	model, err := classifier.NewONNXModel(classifier.ONNXConfig{
		SharedLibraryPath: cfg.ORTLibraryPath,
		ModelPath:         cfg.ModelPath,
		NumClasses:        labelMap.Len(),
	})
	if err != nil {
		return fmt.Errorf("failed to load classifier: %w", err)
	}
	defer model.Close()

	service, err := classifier.NewService(model, labelMap, logger)
	if err != nil {
		return err
	}
	logger.Info("classifier loaded", "model", cfg.ModelPath, "classes", labelMap.Len())

	// Answer pipeline
	embedder, err := embedding.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	generator, err := llm.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	proc, err := processor.NewDocumentProcessor(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	cache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	pipeline := &answer.Pipeline{
		Processor: proc,
		Builder: &index.Builder{
			Embedder:     embedder,
			Cache:        cache,
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			Logger:       logger,
		},
		Generator:    generator,
		DocumentsDir: cfg.DocumentsDir,
		K:            cfg.RetrievalK,
		Logger:       logger,
	}
	logger.Info("answer pipeline ready",
		"llm", cfg.LLMProvider+"/"+cfg.LLMModel,
		"embeddings", embedder.ModelID(),
		"cache", cfg.EmbeddingCache)

	// HTTP
	handler := &api.Handler{
		Classifier: service,
		Answerer:   pipeline,
		UploadDir:  cfg.UploadDir,
		Logger:     logger,
	}
	app := api.NewApp(handler, api.Options{
		BodyLimitMB: cfg.MaxUploadMB,
		Logger:      logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("listening", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openCache returns the configured embedding cache, or nil for none
func openCache(ctx context.Context, cfg config.Config) (index.Cache, func(), error) {
	switch cfg.EmbeddingCache {
	case "memory":
		return index.NewMemoryCache(), func() {}, nil
	case "postgres":
		db, err := database.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Initialize(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, db.Close, nil
	case "none", "":
		return nil, func() {}, nil
	}
	return nil, nil, errors.New("unknown embedding cache " + cfg.EmbeddingCache)
}
