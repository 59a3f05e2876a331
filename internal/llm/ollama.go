package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
)

// OllamaBackend calls Ollama's native /api/generate endpoint.
type OllamaBackend struct {
	url    string       // e.g. "http://localhost:11434"
	model  string       // e.g. "llama3.1:8b"
	client *http.Client // reused across calls
}

var _ Backend = (*OllamaBackend)(nil)

// NewOllamaBackend creates a backend for the given server. timeout bounds
// each individual HTTP request.
func NewOllamaBackend(url, model string, timeout time.Duration) *OllamaBackend {
	return &OllamaBackend{
		url:   strings.TrimRight(url, "/"),
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (o *OllamaBackend) Name() string { return "ollama" }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (o *OllamaBackend) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", apperr.Generation("marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Generation("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Op: "ollama generate", Err: err}
	}
	defer resp.Body.Close()

	var out generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("LLM returned status %d", resp.StatusCode)
		if decodeErr == nil && out.Error != "" {
			reason += ": " + out.Error
		}
		return "", apperr.Generation(reason, nil)
	}
	if decodeErr != nil {
		if readFailed(decodeErr) {
			return "", &TransportError{Op: "ollama generate", Err: decodeErr}
		}
		return "", apperr.Generation("failed to decode LLM response", decodeErr)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", apperr.Generation("LLM returned empty content", nil)
	}
	return text, nil
}

// Ping lists local models, which only succeeds when the server is up.
func (o *OllamaBackend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return &TransportError{Op: "ollama ping", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama ping returned status %d", resp.StatusCode)
	}
	return nil
}

// readFailed reports whether a body decode error came from the connection
// rather than from malformed JSON.
func readFailed(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded)
}
