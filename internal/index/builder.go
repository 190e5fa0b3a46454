package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"

	"eyeai/internal/embedding"
	"eyeai/internal/models"
)

// Cache stores embedded chunks under a content-derived key.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.TextChunk, bool, error)
	Put(ctx context.Context, key string, chunks []models.TextChunk) error
}

// Builder embeds the chunks of a document and builds an Index over them.
// Without a Cache every Build call embeds from scratch.
type Builder struct {
	Embedder     embedding.Embedder
	Cache        Cache
	ChunkSize    int
	ChunkOverlap int
	Logger       *slog.Logger
}

// Build returns an index over chunks, which belong to the document named by
// document. Chunk order, IDs and metadata are preserved; the caller's slice
// is not modified.
func (b *Builder) Build(ctx context.Context, document string, chunks []models.TextChunk) (*Index, error) {
	key := b.CacheKey(chunks)

	if b.Cache != nil {
		cached, ok, err := b.Cache.Get(ctx, key)
		if err != nil {
			// A broken cache degrades to embedding
			b.logger().Warn("embedding cache read failed", "document", document, "error", err)
		} else if ok && len(cached) == len(chunks) {
			b.logger().Debug("embedding cache hit", "document", document, "chunks", len(cached))
			return New(b.Embedder, cached)
		}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := b.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", document, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	embedded := make([]models.TextChunk, len(chunks))
	for i, c := range chunks {
		embedded[i] = c
		if embedded[i].Metadata.Document == "" {
			embedded[i].Metadata.Document = document
		}
		embedded[i].Embedding = vectors[i]
	}

	if b.Cache != nil {
		if err := b.Cache.Put(ctx, key, embedded); err != nil {
			b.logger().Warn("embedding cache write failed", "document", document, "error", err)
		}
	}

	return New(b.Embedder, embedded)
}

// CacheKey derives the cache key for a chunked document. Any change to the
// embedding model, the chunking parameters or the text yields a new key.
func (b *Builder) CacheKey(chunks []models.TextChunk) string {
	h := sha256.New()
	h.Write([]byte(b.Embedder.ModelID()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(b.ChunkSize)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(b.ChunkOverlap)))
	for _, c := range chunks {
		h.Write([]byte{0})
		h.Write([]byte(c.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
