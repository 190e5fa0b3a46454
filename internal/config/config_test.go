package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CHUNK_SIZE", "CHUNK_OVERLAP", "RETRIEVAL_K", "LLM_PROVIDER", "EMBEDDING_CACHE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 10, cfg.RetrievalK)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "none", cfg.EmbeddingCache)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 1e-9)
}

func TestValidate(t *testing.T) {
	base := Config{ChunkSize: 1000, ChunkOverlap: 200, RetrievalK: 10, EmbeddingCache: "none"}

	t.Run("Overlap not smaller than size", func(t *testing.T) {
		cfg := base
		cfg.ChunkOverlap = 1000
		assert.Error(t, cfg.Validate())
	})

	t.Run("Zero k", func(t *testing.T) {
		cfg := base
		cfg.RetrievalK = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Postgres cache requires a URL", func(t *testing.T) {
		cfg := base
		cfg.EmbeddingCache = "postgres"
		assert.Error(t, cfg.Validate())
		cfg.DatabaseURL = "postgres://localhost/eyeai"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Unknown cache", func(t *testing.T) {
		cfg := base
		cfg.EmbeddingCache = "redis"
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("Missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
	})

	t.Run("Values are loaded without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("EYEAI_TEST_FROM_FILE=file\nEYEAI_TEST_PRESET=file\n"), 0o644))
		t.Setenv("EYEAI_TEST_PRESET", "env")
		t.Cleanup(func() { os.Unsetenv("EYEAI_TEST_FROM_FILE") })

		require.NoError(t, LoadEnv(path))

		assert.Equal(t, "file", os.Getenv("EYEAI_TEST_FROM_FILE"))
		assert.Equal(t, "env", os.Getenv("EYEAI_TEST_PRESET"))
	})
}

func TestGetBool(t *testing.T) {
	t.Setenv("EYEAI_FLAG", "yes")
	assert.True(t, GetBool("EYEAI_FLAG", false))
	t.Setenv("EYEAI_FLAG", "maybe")
	assert.False(t, GetBool("EYEAI_FLAG", false))
}
