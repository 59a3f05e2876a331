// Package followup decides whether an answer deserves a clarifying
// follow-up question.
package followup

import (
	"context"
	"log/slog"

	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/prompt"
)

// Decision is the policy's verdict. Text is set only when Ask is true.
type Decision struct {
	Ask  bool
	Text string
}

// Policy asks the model to judge answers. Model failures never block the
// interview: any error results in no follow-up.
type Policy struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

func NewPolicy(g llm.Gateway, logger *slog.Logger) *Policy {
	return &Policy{gateway: g, logger: logger}
}

// Decide judges answer against question. The session supplies the role,
// persona, transcript and follow-up count; it is only read.
func (p *Policy) Decide(ctx context.Context, s *interviewsession.Session, answer, question string) Decision {
	if s.FollowUpCount >= interviewsession.MaxFollowUps {
		return Decision{}
	}

	req := prompt.Request{
		Role:       s.Role,
		Persona:    s.Persona,
		Question:   question,
		Answer:     answer,
		Transcript: s.Transcript,
	}
	log := p.logger.With("session_id", s.ID, "question_number", s.QuestionNumber())

	req.Purpose = prompt.PurposeFollowUpJudgement
	text, err := p.complete(ctx, req)
	if err != nil {
		log.Warn("follow-up judgement failed, skipping follow-up", "error", err)
		return Decision{}
	}
	verdict, err := ParseJudgement(text)
	if err != nil {
		log.Warn("follow-up judgement unreadable, skipping follow-up", "error", err)
		return Decision{}
	}
	if verdict.Complete {
		return Decision{}
	}

	req.Purpose = prompt.PurposeFollowUpQuestion
	text, err = p.complete(ctx, req)
	if err != nil {
		log.Warn("follow-up generation failed, skipping follow-up", "error", err)
		return Decision{}
	}
	q, err := ParseQuestion(text)
	if err != nil {
		log.Warn("follow-up question unreadable, skipping follow-up", "error", err)
		return Decision{}
	}

	log.Debug("asking follow-up", "reason", verdict.Reason)
	return Decision{Ask: true, Text: q}
}

func (p *Policy) complete(ctx context.Context, req prompt.Request) (string, error) {
	params := prompt.ParamsFor(req.Purpose)
	return p.gateway.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt.Build(req),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
}
