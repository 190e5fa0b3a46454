package embedding

import (
	"context"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

type voyageInputType string

const (
	voyageInputDocument voyageInputType = "document"
	voyageInputQuery    voyageInputType = "query"
)

// VoyageEmbedder generates embeddings using VoyageAI
type VoyageEmbedder struct {
	client *voyageai.VoyageClient
	model  string
}

// NewVoyageEmbedder creates a new VoyageAI embedder
func NewVoyageEmbedder(apiKey, model string) *VoyageEmbedder {
	return &VoyageEmbedder{
		client: voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		}),
		model: model,
	}
}

// ModelID implements Embedder
func (e *VoyageEmbedder) ModelID() string {
	return "voyage/" + e.model
}

// EmbedTexts embeds document chunks
func (e *VoyageEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.embed(ctx, texts, voyageInputDocument)
}

// EmbedText embeds a retrieval query
func (e *VoyageEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, voyageInputQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *VoyageEmbedder) embed(ctx context.Context, texts []string, inputType voyageInputType) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	it := string(inputType)
	resp, err := e.client.Embed(texts, e.model, &voyageai.EmbeddingRequestOpts{
		InputType: &it,
	})
	if err != nil {
		return nil, fmt.Errorf("could not get embeddings: %w", err)
	}
	if err := checkCount(len(resp.Data), len(texts)); err != nil {
		return nil, err
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}
