// Package llm wraps the external completion endpoint behind a retrying
// gateway. Backends report transport failures as *TransportError; anything
// else they return is treated as a generation failure and never retried.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/interviewpartner/backend/internal/apperr"
)

// CompletionRequest is one non-streaming completion call.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Gateway is what the interview core depends on.
type Gateway interface {
	// Complete blocks until the model answers or retries are exhausted.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// HealthCheck makes a single probe, without retries.
	HealthCheck(ctx context.Context) bool
}

// Backend is a single model endpoint.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req CompletionRequest) (string, error)
	Ping(ctx context.Context) error
}

// TransportError means the request never got an application-level answer:
// connection refused, timeout, broken transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// RetryingGateway applies a RetryPolicy to a Backend.
type RetryingGateway struct {
	backend Backend
	policy  RetryPolicy
	logger  *slog.Logger
}

var _ Gateway = (*RetryingGateway)(nil)

func NewGateway(b Backend, policy RetryPolicy, logger *slog.Logger) *RetryingGateway {
	return &RetryingGateway{backend: b, policy: policy, logger: logger}
}

func (g *RetryingGateway) Backend() Backend {
	return g.backend
}

func (g *RetryingGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var text string
	attempts, err := g.policy.Do(func(attempt int) error {
		out, err := g.backend.Generate(ctx, req)
		if err != nil {
			g.logger.Warn("llm call failed",
				"backend", g.backend.Name(),
				"attempt", attempt,
				"retryable", g.policy.retryable(err),
				"error", err,
			)
			return err
		}
		text = out
		return nil
	})
	if err == nil {
		return text, nil
	}
	if g.policy.retryable(err) {
		return "", apperr.Connection(
			fmt.Sprintf("%s unreachable after %d attempts", g.backend.Name(), attempts), err)
	}
	if errors.Is(err, apperr.ErrGeneration) {
		return "", err
	}
	return "", apperr.Generation(g.backend.Name()+" rejected the request", err)
}

func (g *RetryingGateway) HealthCheck(ctx context.Context) bool {
	if err := g.backend.Ping(ctx); err != nil {
		g.logger.Warn("llm health check failed", "backend", g.backend.Name(), "error", err)
		return false
	}
	return true
}
