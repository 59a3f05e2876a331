package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/llm"
)

func TestOllamaBackend_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response": "  {\"complete\": true}  ", "done": true}`))
	}))
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL+"/", "llama3.1:8b", 5*time.Second)
	text, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "judge", Temperature: 0.2, MaxTokens: 200})

	require.NoError(t, err)
	assert.Equal(t, `{"complete": true}`, text)
	assert.Equal(t, "llama3.1:8b", got["model"])
	assert.Equal(t, "judge", got["prompt"])
	assert.Equal(t, false, got["stream"])
	opts := got["options"].(map[string]any)
	assert.Equal(t, 0.2, opts["temperature"])
	assert.Equal(t, float64(200), opts["num_predict"])
}

func TestOllamaBackend_ErrorStatusIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "model 'nope' not found"}`))
	}))
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL, "nope", 5*time.Second)
	_, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, errors.Is(err, apperr.ErrGeneration), "got %v", err)
	assert.False(t, llm.IsTransient(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestOllamaBackend_EmptyResponseIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "   "}`))
	}))
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL, "m", 5*time.Second)
	_, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, errors.Is(err, apperr.ErrGeneration), "got %v", err)
}

func TestOllamaBackend_UnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	b := llm.NewOllamaBackend(url, "m", time.Second)
	_, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, llm.IsTransient(err), "got %v", err)
	assert.Error(t, b.Ping(context.Background()))
}

func TestOllamaBackend_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL, "m", time.Second)
	assert.NoError(t, b.Ping(context.Background()))
}

func TestGateway_RetriesUnreachableOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	var slept []time.Duration
	g := llm.NewGateway(llm.NewOllamaBackend(url, "m", time.Second), recordingPolicy(&slept), discardLogger())
	_, err := g.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, errors.Is(err, apperr.ErrConnection), "got %v", err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

// stallingOllama sends a 200 header and half a body, then stalls until the
// client gives up.
func stallingOllama(calls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"respo`))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
}

func TestOllamaBackend_BodyReadTimeoutIsTransient(t *testing.T) {
	var calls atomic.Int32
	srv := stallingOllama(&calls)
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL, "m", 100*time.Millisecond)
	_, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, llm.IsTransient(err), "got %v", err)
	assert.False(t, errors.Is(err, apperr.ErrGeneration))
}

func TestOllamaBackend_MalformedBodyIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	b := llm.NewOllamaBackend(srv.URL, "m", time.Second)
	_, err := b.Generate(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, errors.Is(err, apperr.ErrGeneration), "got %v", err)
	assert.False(t, llm.IsTransient(err))
}

func TestGateway_RetriesStalledOllamaResponse(t *testing.T) {
	var calls atomic.Int32
	srv := stallingOllama(&calls)
	defer srv.Close()

	var slept []time.Duration
	g := llm.NewGateway(llm.NewOllamaBackend(srv.URL, "m", 100*time.Millisecond), recordingPolicy(&slept), discardLogger())
	_, err := g.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})

	assert.True(t, errors.Is(err, apperr.ErrConnection), "got %v", err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}
