package embedding

import (
	"context"
	"errors"
	"fmt"

	"eyeai/internal/config"
)

// Embedder turns text into dense vectors. Implementations make exactly one
// upstream attempt per call.
type Embedder interface {
	// EmbedTexts embeds document chunks, returning one vector per text in order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedText embeds a single retrieval query.
	EmbedText(ctx context.Context, text string) ([]float32, error)
	// ModelID identifies the provider and model, e.g. "openai/text-embedding-3-small".
	ModelID() string
}

// ErrEmptyResponse is returned when a provider answers without vectors.
var ErrEmptyResponse = errors.New("embedding provider returned no vectors")

// Provider default models, used when EMBEDDING_MODEL is left at the OpenAI default.
const (
	DefaultOllamaModel = "nomic-embed-text"
	DefaultVoyageModel = "voyage-3.5-lite"
	DefaultHugotModel  = "sentence-transformers/all-MiniLM-L6-v2"
)

// New creates the embedder selected by cfg.EmbeddingProvider.
func New(cfg config.Config) (Embedder, error) {
	model := cfg.EmbeddingModel
	override := func(def string) string {
		if model == "" || model == config.DefaultEmbedModel {
			return def
		}
		return model
	}

	switch cfg.EmbeddingProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai embedding provider")
		}
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaHost, override(DefaultOllamaModel))
	case "voyage", "voyageai":
		if cfg.VoyageAPIKey == "" {
			return nil, errors.New("VOYAGEAI_API_KEY is required for the voyage embedding provider")
		}
		return NewVoyageEmbedder(cfg.VoyageAPIKey, override(DefaultVoyageModel)), nil
	case "hugot":
		return NewHugotEmbedder(cfg.HugotModelDir, override(DefaultHugotModel))
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmptyResponse, got, want)
	}
	return nil
}
