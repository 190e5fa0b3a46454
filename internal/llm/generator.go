package llm

import (
	"context"
	"errors"
	"fmt"

	"eyeai/internal/config"
)

// Generator produces a completion for a single prompt. Implementations make
// exactly one upstream attempt per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.New("model returned no completion")

// DefaultOllamaModel is used when LLM_MODEL is left at the OpenAI default.
const DefaultOllamaModel = "llama3.2"

// New creates the generator selected by cfg.LLMProvider.
func New(cfg config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai llm provider")
		}
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, cfg.LLMTemperature), nil
	case "ollama":
		model := cfg.LLMModel
		if model == "" || model == config.DefaultLLMModel {
			model = DefaultOllamaModel
		}
		return NewOllamaGenerator(cfg.OllamaHost, model, cfg.LLMTemperature)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
