package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaGenerator handles interactions with the Ollama LLM API
type OllamaGenerator struct {
	Client      *api.Client
	Model       string
	Temperature float64
}

// NewOllamaGenerator creates a new Ollama generator. An empty host falls
// back to OLLAMA_HOST and then the Ollama default.
func NewOllamaGenerator(host string, model string, temperature float64) (*OllamaGenerator, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}
	client := api.NewClient(hostURL, http.DefaultClient)

	return &OllamaGenerator{
		Client:      client,
		Model:       model,
		Temperature: temperature,
	}, nil
}

// Generate streams a response from the model and returns it in full
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := api.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Options: map[string]interface{}{
			"temperature": o.Temperature,
			"num_predict": 1024,
		},
	}

	var responseBuilder strings.Builder

	err := o.Client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := responseBuilder.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return responseBuilder.String(), nil
}
