package database

import (
	"context"
	"testing"
	"time"

	"eyeai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("eyeai"),
		postgres.WithUsername("eyeai"),
		postgres.WithPassword("eyeai"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewDB(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Initialize(ctx))
	return db
}

func TestChunkCache(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	chunks := []models.TextChunk{
		{
			ID:        0,
			Content:   "Glaucoma is caused by raised intraocular pressure.",
			Metadata:  models.Metadata{Document: "glaucoma.txt", ChunkIndex: 0},
			Embedding: []float32{0.1, 0.2, 0.3},
		},
		{
			ID:        1,
			Content:   "Treatment includes eye drops and laser trabeculoplasty.",
			Metadata:  models.Metadata{Document: "glaucoma.txt", ChunkIndex: 1},
			Embedding: []float32{0.4, 0.5, 0.6},
		},
	}

	t.Run("Initialize is idempotent", func(t *testing.T) {
		assert.NoError(t, db.Initialize(ctx))
	})

	t.Run("Miss", func(t *testing.T) {
		got, ok, err := db.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("Put then Get", func(t *testing.T) {
		require.NoError(t, db.Put(ctx, "key-1", chunks))

		got, ok, err := db.Get(ctx, "key-1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 2)
		for i := range chunks {
			assert.Equal(t, chunks[i].Content, got[i].Content)
			assert.Equal(t, chunks[i].Metadata, got[i].Metadata)
			assert.Equal(t, chunks[i].ID, got[i].ID)
			assert.InDeltaSlice(t, chunks[i].Embedding, got[i].Embedding, 1e-6)
		}
	})

	t.Run("Put replaces", func(t *testing.T) {
		require.NoError(t, db.Put(ctx, "key-1", chunks[:1]))

		got, ok, err := db.Get(ctx, "key-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, got, 1)

		n, err := db.CountChunks(ctx, "glaucoma.txt")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
