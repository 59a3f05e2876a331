// Package scoring turns a completed interview transcript into a validated
// feedback report.
package scoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/prompt"
)

// DefaultDeadline is how long a feedback call may take before its result
// is reported as a timeout.
const DefaultDeadline = 10 * time.Second

type Scorer struct {
	gateway  llm.Gateway
	deadline time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Scorer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

func NewScorer(g llm.Gateway, deadline time.Duration, logger *slog.Logger, opts ...Option) *Scorer {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	s := &Scorer{gateway: g, deadline: deadline, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates a completed session. Gateway errors are returned as-is.
// The deadline is checked once the model has answered; the call itself is
// never interrupted.
func (s *Scorer) Score(ctx context.Context, sess *interviewsession.Session) (*feedback.Report, error) {
	if sess.State != interviewsession.StateCompleted {
		return nil, apperr.InvalidState("session %s is %s; feedback requires a completed session", sess.ID, sess.State)
	}

	params := prompt.ParamsFor(prompt.PurposeFeedback)
	req := llm.CompletionRequest{
		Prompt: prompt.Build(prompt.Request{
			Purpose:    prompt.PurposeFeedback,
			Role:       sess.Role,
			Persona:    sess.Persona,
			Transcript: sess.Transcript,
		}),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	start := s.now()
	text, err := s.gateway.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if elapsed := s.now().Sub(start); elapsed > s.deadline {
		s.logger.Warn("feedback generation exceeded deadline",
			"session_id", sess.ID,
			"elapsed", elapsed.String(),
			"deadline", s.deadline.String(),
		)
		return nil, apperr.Timeout("feedback took %s, limit is %s", elapsed.Round(time.Millisecond), s.deadline)
	}

	report, err := ParseReport(text)
	if err != nil {
		return nil, err
	}
	report.SessionID = sess.ID
	report.GeneratedAt = s.now()
	return report, nil
}
