package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaEmbedder generates embeddings using Ollama API
type OllamaEmbedder struct {
	Client        *api.Client
	Model         string
	Timeout       time.Duration
	MaxConcurrent int
}

// NewOllamaEmbedder creates a new Ollama embedder. An empty host falls back
// to OLLAMA_HOST and then the Ollama default.
func NewOllamaEmbedder(host string, model string) (*OllamaEmbedder, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}
	client := api.NewClient(hostURL, http.DefaultClient)

	return &OllamaEmbedder{
		Client:        client,
		Model:         model,
		Timeout:       time.Second * 30,
		MaxConcurrent: 3, // Limit concurrent requests based on hardware
	}, nil
}

// ModelID implements Embedder
func (e *OllamaEmbedder) ModelID() string {
	return "ollama/" + e.Model
}

// EmbedText generates an embedding for a text
func (e *OllamaEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	req := api.EmbeddingRequest{
		Model:   e.Model,
		Prompt:  text,
		Options: map[string]any{},
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embeddings(ctxWithTimeout, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, ErrEmptyResponse
	}

	return toFloat32(resp.Embedding), nil
}

// EmbedTexts generates embeddings for multiple texts in parallel. The first
// failure cancels the remaining requests.
func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, max(e.MaxConcurrent, 1))
	errChan := make(chan error, len(texts))
	out := make([][]float32, len(texts))

	for i := range texts {
		wg.Add(1)
		semaphore <- struct{}{} // Acquire semaphore

		go func(i int) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release semaphore

			embedding, err := e.EmbedText(ctx, texts[i])
			if err != nil {
				errChan <- fmt.Errorf("failed to embed chunk %d: %w", i, err)
				cancel()
				return
			}
			// each goroutine owns its slot
			out[i] = embedding
		}(i)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	return out, nil
}
