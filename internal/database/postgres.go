package database

import (
	"context"
	"fmt"

	"eyeai/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// DB represents the database connection. It persists embedded reference
// chunks so they survive restarts and are shared between instances.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection
func NewDB(ctx context.Context, connStr string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Initialize sets up the vector extension and the chunk table
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	// Dimension is left open since it depends on the embedding model
	_, err = db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS chunk_embeddings (
            cache_key   TEXT NOT NULL,
            chunk_index INTEGER NOT NULL,
            document    TEXT NOT NULL,
            content     TEXT NOT NULL,
            embedding   vector NOT NULL,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (cache_key, chunk_index)
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create chunk_embeddings table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS chunk_embeddings_document_idx ON chunk_embeddings (document)
	`)
	if err != nil {
		return fmt.Errorf("failed to create document index: %w", err)
	}

	return nil
}

// Get returns the chunks stored under key in chunk order
func (db *DB) Get(ctx context.Context, key string) ([]models.TextChunk, bool, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT chunk_index, document, content, embedding::text
		FROM chunk_embeddings
		WHERE cache_key = $1
		ORDER BY chunk_index
	`, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query chunk embeddings: %w", err)
	}

	chunks, err := processRows(rows)
	if err != nil {
		return nil, false, err
	}
	return chunks, len(chunks) > 0, nil
}

// Put stores chunks under key, replacing any previous entry
func (db *DB) Put(ctx context.Context, key string, chunks []models.TextChunk) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chunk_embeddings WHERE cache_key = $1`, key); err != nil {
		return fmt.Errorf("failed to clear chunk embeddings: %w", err)
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(`
			INSERT INTO chunk_embeddings (cache_key, chunk_index, document, content, embedding)
			VALUES ($1, $2, $3, $4, $5::vector)
		`,
			key,
			chunk.Metadata.ChunkIndex,
			chunk.Metadata.Document,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding).String())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store chunk embeddings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chunk embeddings: %w", err)
	}
	return nil
}

// CountChunks returns the number of stored chunks for a document
func (db *DB) CountChunks(ctx context.Context, document string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM chunk_embeddings WHERE document = $1`, document).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func processRows(rows pgx.Rows) ([]models.TextChunk, error) {
	defer rows.Close()

	var chunks []models.TextChunk
	for rows.Next() {
		var (
			chunk     models.TextChunk
			embedding string
		)
		if err := rows.Scan(
			&chunk.Metadata.ChunkIndex,
			&chunk.Metadata.Document,
			&chunk.Content,
			&embedding); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var vec pgvector.Vector
		if err := vec.Scan(embedding); err != nil {
			return nil, fmt.Errorf("failed to parse embedding: %w", err)
		}
		chunk.ID = chunk.Metadata.ChunkIndex
		chunk.Embedding = vec.Slice()

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return chunks, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.Pool.Close()
}
