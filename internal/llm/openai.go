package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/interviewpartner/backend/internal/apperr"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions server
// (OpenAI, LM Studio, vLLM, Ollama's /v1 endpoint).
type OpenAIBackend struct {
	client openai.Client
	model  string
}

var _ Backend = (*OpenAIBackend)(nil)

// NewOpenAIBackend builds a client for baseURL. The SDK's own retries are
// disabled; RetryPolicy owns retrying.
func NewOpenAIBackend(baseURL, apiKey, model string, timeout time.Duration) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		// Local servers ignore the key but the SDK requires one.
		opts = append(opts, option.WithAPIKey("not-needed"))
	}
	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (o *OpenAIBackend) Name() string { return "openai" }

func (o *OpenAIBackend) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", classifyOpenAIError("openai chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Generation("LLM returned no choices", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperr.Generation("LLM returned empty content", nil)
	}
	return text, nil
}

func (o *OpenAIBackend) Ping(ctx context.Context) error {
	_, err := o.client.Models.List(ctx)
	if err != nil {
		return classifyOpenAIError("openai list models", err)
	}
	return nil
}

// classifyOpenAIError separates HTTP error responses, which the server
// produced on purpose, from failures to reach the server at all.
func classifyOpenAIError(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apperr.Generation(op+" rejected", err)
	}
	return &TransportError{Op: op, Err: err}
}
