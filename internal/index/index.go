package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"eyeai/internal/embedding"
	"eyeai/internal/models"
)

// ErrDimensionMismatch is returned when a query vector does not match the
// dimension of the indexed chunks.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Index is an in-memory similarity index over the chunks of one document.
// It is read-only after construction and safe for concurrent searches.
type Index struct {
	embedder embedding.Embedder
	chunks   []models.TextChunk
	norms    []float64
}

// New builds an index over chunks that already carry embeddings.
func New(embedder embedding.Embedder, chunks []models.TextChunk) (*Index, error) {
	norms := make([]float64, len(chunks))
	dim := -1
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("chunk %d has no embedding", i)
		}
		if dim >= 0 && len(c.Embedding) != dim {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(c.Embedding), dim)
		}
		dim = len(c.Embedding)
		norms[i] = norm(c.Embedding)
	}
	return &Index{embedder: embedder, chunks: chunks, norms: norms}, nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search embeds query and returns the k most similar chunks.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if len(ix.chunks) == 0 || k <= 0 {
		return nil, nil
	}
	vec, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return ix.SearchVector(vec, k)
}

// SearchVector returns the k chunks with the highest cosine similarity to
// vec, best first. Equal scores keep document order.
func (ix *Index) SearchVector(vec []float32, k int) ([]models.ScoredChunk, error) {
	if len(ix.chunks) == 0 || k <= 0 {
		return nil, nil
	}
	if len(vec) != len(ix.chunks[0].Embedding) {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(vec), len(ix.chunks[0].Embedding))
	}

	qn := norm(vec)
	scored := make([]models.ScoredChunk, len(ix.chunks))
	for i, c := range ix.chunks {
		scored[i] = models.ScoredChunk{
			Chunk: c,
			Score: float32(cosine(vec, c.Embedding, qn, ix.norms[i])),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
