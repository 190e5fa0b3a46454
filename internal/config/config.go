package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default values for every setting that has one.
const (
	DefaultPort           = 5000
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultRetrievalK     = 10
	DefaultMaxUploadMB    = 20
	DefaultLLMProvider    = "openai"
	DefaultLLMModel       = "gpt-4o-mini"
	DefaultEmbedProvider  = "openai"
	DefaultEmbedModel     = "text-embedding-3-small"
	DefaultEmbeddingCache = "none"
)

// Config holds every externally supplied setting of the service.
type Config struct {
	Port        int
	LogLevel    string
	MaxUploadMB int

	// Classifier
	ModelPath      string
	LabelsPath     string
	ORTLibraryPath string
	UploadDir      string

	// Answer pipeline
	DocumentsDir   string
	ChunkSize      int
	ChunkOverlap   int
	RetrievalK     int
	LLMProvider    string
	LLMModel       string
	LLMTemperature float64

	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingCache    string

	// Credentials and endpoints
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaHost    string
	VoyageAPIKey  string
	HugotModelDir string
	DatabaseURL   string
}

// LoadEnv loads variables from the given .env files (default ".env").
// Variables already set in the environment win. A missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from the environment.
func Load() Config {
	return Config{
		Port:        GetInt("PORT", DefaultPort),
		LogLevel:    Get("LOG_LEVEL", "info"),
		MaxUploadMB: GetInt("MAX_UPLOAD_MB", DefaultMaxUploadMB),

		ModelPath:      Get("MODEL_PATH", "models/disone.onnx"),
		LabelsPath:     Get("LABELS_PATH", ""),
		ORTLibraryPath: Get("ORT_LIBRARY_PATH", ""),
		UploadDir:      Get("UPLOAD_DIR", "static/uploads"),

		DocumentsDir:   Get("DOCUMENTS_DIR", "data/documents"),
		ChunkSize:      GetInt("CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:   GetInt("CHUNK_OVERLAP", DefaultChunkOverlap),
		RetrievalK:     GetInt("RETRIEVAL_K", DefaultRetrievalK),
		LLMProvider:    strings.ToLower(Get("LLM_PROVIDER", DefaultLLMProvider)),
		LLMModel:       Get("LLM_MODEL", DefaultLLMModel),
		LLMTemperature: GetFloat("LLM_TEMPERATURE", 0.7),

		EmbeddingProvider: strings.ToLower(Get("EMBEDDING_PROVIDER", DefaultEmbedProvider)),
		EmbeddingModel:    Get("EMBEDDING_MODEL", DefaultEmbedModel),
		EmbeddingCache:    strings.ToLower(Get("EMBEDDING_CACHE", DefaultEmbeddingCache)),

		OpenAIAPIKey:  Get("OPENAI_API_KEY", ""),
		OpenAIBaseURL: Get("OPENAI_BASE_URL", ""),
		OllamaHost:    Get("OLLAMA_HOST", ""),
		VoyageAPIKey:  Get("VOYAGEAI_API_KEY", ""),
		HugotModelDir: Get("HUGOT_MODEL_DIR", "models"),
		DatabaseURL:   Get("DATABASE_URL", ""),
	}
}

// Validate checks settings that would otherwise fail deep inside a request.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0,%d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("retrieval k must be positive, got %d", c.RetrievalK)
	}
	switch c.EmbeddingCache {
	case "none", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when EMBEDDING_CACHE=postgres")
		}
	default:
		return fmt.Errorf("unknown embedding cache %q", c.EmbeddingCache)
	}
	return nil
}

// Get retrieves an environment variable with a fallback value
func Get(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// GetInt retrieves an integer environment variable with a fallback value
func GetInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return fallback
}

// GetFloat retrieves a float environment variable with a fallback value
func GetFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return result
		}
	}
	return fallback
}

// GetBool retrieves a boolean environment variable with a fallback value
func GetBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "y":
			return true
		case "false", "0", "no", "n":
			return false
		}
	}
	return fallback
}
