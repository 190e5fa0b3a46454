package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"eyeai/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestPrompts(t *testing.T) {
	t.Run("Summary", func(t *testing.T) {
		p := SummaryPrompt("blurred vision for two weeks")
		assert.Contains(t, p, "summarize the patient's history into short pointers")
		assert.Contains(t, p, "blurred vision for two weeks")
	})

	t.Run("Causes", func(t *testing.T) {
		p := CausesPrompt("Glaucoma", "- tunnel vision", "raised pressure damages the optic nerve")
		assert.Contains(t, p, "following diagnosis: Glaucoma")
		assert.Contains(t, p, "patient history : - tunnel vision")
		assert.Contains(t, p, "medical academia to infer a cause : raised pressure")
	})

	t.Run("Treatment", func(t *testing.T) {
		p := TreatmentPrompt("Cataract", "ageing lens", "surgery replaces the lens")
		assert.Contains(t, p, "treatment(in pointers) for the following diagnosis: Cataract")
		assert.Contains(t, p, "sets of causes: ageing lens")
		assert.Contains(t, p, "academia as reference: surgery replaces the lens")
	})

	t.Run("Translate", func(t *testing.T) {
		assert.Equal(t, "Convert the following text to hindi: hello", TranslatePrompt(language.Hindi, "hello"))
	})

	t.Run("Language names", func(t *testing.T) {
		assert.Equal(t, "hindi", LanguageName(language.Hindi))
		assert.Equal(t, "english", LanguageName(language.English))
	})
}

func TestNew(t *testing.T) {
	t.Run("OpenAI", func(t *testing.T) {
		g, err := New(config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini", OpenAIAPIKey: "sk-test"})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIGenerator{}, g)
	})

	t.Run("OpenAI without key", func(t *testing.T) {
		_, err := New(config.Config{LLMProvider: "openai"})
		assert.Error(t, err)
	})

	t.Run("Ollama default model", func(t *testing.T) {
		g, err := New(config.Config{LLMProvider: "ollama", LLMModel: config.DefaultLLMModel})
		require.NoError(t, err)
		require.IsType(t, &OllamaGenerator{}, g)
		assert.Equal(t, DefaultOllamaModel, g.(*OllamaGenerator).Model)
	})

	t.Run("Unknown provider", func(t *testing.T) {
		_, err := New(config.Config{LLMProvider: "bard"})
		assert.Error(t, err)
	})
}

func TestOpenAIGenerator(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) == 1 && body.Messages[0].Role == "user" {
			gotPrompt = body.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "Use prescribed eye drops."},
			}},
		})
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL+"/", "gpt-4o-mini", 0.7)

	t.Run("Single user message", func(t *testing.T) {
		out, err := g.Generate(context.Background(), "What treats glaucoma?")
		require.NoError(t, err)
		assert.Equal(t, "Use prescribed eye drops.", out)
		assert.Equal(t, "What treats glaucoma?", gotPrompt)
	})

	t.Run("Failure is not retried", func(t *testing.T) {
		fail.Store(true)
		defer fail.Store(false)

		before := calls.Load()
		_, err := g.Generate(context.Background(), "x")
		assert.Error(t, err)
		assert.Equal(t, before+1, calls.Load())
	})
}

func TestOllamaGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "llama3.2", body.Model)

		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for _, part := range []string{"Cataract ", "surgery ", "works."} {
			_ = enc.Encode(map[string]any{"model": body.Model, "response": part, "done": false})
		}
		_ = enc.Encode(map[string]any{"model": body.Model, "response": "", "done": true})
	}))
	defer srv.Close()

	g, err := NewOllamaGenerator(srv.URL, "llama3.2", 0.7)
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), "How is cataract treated?")
	require.NoError(t, err)
	assert.Equal(t, "Cataract surgery works.", out)
}
