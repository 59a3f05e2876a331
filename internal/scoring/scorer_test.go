package scoring_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
	"github.com/interviewpartner/backend/internal/llm/llmtest"
	"github.com/interviewpartner/backend/internal/prompt"
	"github.com/interviewpartner/backend/internal/scoring"
)

const goodFeedback = `{
  "scores": {"communication": 4, "technical_knowledge": 3, "structure": 5},
  "strengths": ["Clear examples", "Good pacing", "Solid API design"],
  "improvements": ["Quantify impact", "Mention trade-offs", "Summarize at the end"],
  "overall_feedback": "A strong interview with clear explanations and good structure throughout the session."
}`

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func completedSession(t *testing.T) *interviewsession.Session {
	t.Helper()
	r, err := role.New("backend_engineer", "", []string{"Design an API."}, map[string]string{
		"communication":       "c",
		"technical_knowledge": "t",
		"structure":           "s",
	})
	require.NoError(t, err)
	s := interviewsession.New(r, interviewsession.ModeChat, t0)
	_, err = s.Start(t0)
	require.NoError(t, err)
	require.NoError(t, s.RecordAnswer("I would use REST with versioned routes.", interviewsession.PersonaNormal, t0))
	_, done, err := s.Advance(t0)
	require.NoError(t, err)
	require.True(t, done)
	return s
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := t0
	return func() time.Time {
		cur := now
		now = now.Add(step)
		return cur
	}
}

func newScorer(g *llmtest.Gateway, opts ...scoring.Option) *scoring.Scorer {
	return scoring.NewScorer(g, scoring.DefaultDeadline, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func TestScore_ValidReport(t *testing.T) {
	g := llmtest.New(llmtest.Text(goodFeedback))
	s := completedSession(t)

	report, err := newScorer(g, scoring.WithClock(steppingClock(time.Second))).Score(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, s.ID, report.SessionID)
	assert.Equal(t, feedback.Scores{Communication: 4, TechnicalKnowledge: 3, Structure: 5}, report.Scores)
	assert.Equal(t, []string{"Clear examples", "Good pacing", "Solid API design"}, report.Strengths)
	assert.Len(t, report.Improvements, 3)
	assert.False(t, report.GeneratedAt.IsZero())

	reqs := g.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, prompt.ParamsFor(prompt.PurposeFeedback).Temperature, reqs[0].Temperature)
	assert.Contains(t, reqs[0].Prompt, "I would use REST with versioned routes.")
}

func TestScore_RequiresCompletedSession(t *testing.T) {
	g := llmtest.New(llmtest.Text(goodFeedback))
	s := completedSession(t)
	s.State = interviewsession.StateActive

	_, err := newScorer(g).Score(context.Background(), s)

	assert.True(t, errors.Is(err, apperr.ErrInvalidState), "got %v", err)
	assert.Equal(t, 0, g.Calls())
}

func TestScore_SurfacesGatewayErrors(t *testing.T) {
	for _, kind := range []error{apperr.ErrConnection, apperr.ErrGeneration} {
		g := llmtest.New(llmtest.Fail(&apperr.Error{Kind: kind, Reason: "boom"}))

		_, err := newScorer(g).Score(context.Background(), completedSession(t))

		assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	}
}

func TestScore_DeadlineCheckedAfterCall(t *testing.T) {
	g := llmtest.New(llmtest.Text(goodFeedback))

	_, err := newScorer(g, scoring.WithClock(steppingClock(11*time.Second))).Score(context.Background(), completedSession(t))

	assert.True(t, errors.Is(err, apperr.ErrTimeout), "got %v", err)
	assert.Equal(t, 1, g.Calls(), "the model call still runs to completion")
}

func TestScore_WithinDeadline(t *testing.T) {
	g := llmtest.New(llmtest.Text(goodFeedback))

	_, err := newScorer(g, scoring.WithClock(steppingClock(9*time.Second))).Score(context.Background(), completedSession(t))

	assert.NoError(t, err)
}

func TestScore_NoJSONIsGenerationError(t *testing.T) {
	g := llmtest.New(llmtest.Text("The candidate did well overall."))

	_, err := newScorer(g).Score(context.Background(), completedSession(t))

	assert.True(t, errors.Is(err, apperr.ErrGeneration), "got %v", err)
}

func TestParseReport_ClampsScores(t *testing.T) {
	r, err := scoring.ParseReport(`{"scores": {"communication": 7, "technical_knowledge": -2, "structure": 3.6}}`)
	require.NoError(t, err)

	assert.Equal(t, 5, r.Scores.Communication)
	assert.Equal(t, 1, r.Scores.TechnicalKnowledge)
	assert.Equal(t, 4, r.Scores.Structure)
}

func TestParseReport_DefaultsUnusableScores(t *testing.T) {
	r, err := scoring.ParseReport(`{"scores": {"communication": "excellent", "technical_knowledge": "4"}}`)
	require.NoError(t, err)

	assert.Equal(t, feedback.DefaultScore, r.Scores.Communication)
	assert.Equal(t, 4, r.Scores.TechnicalKnowledge)
	assert.Equal(t, feedback.DefaultScore, r.Scores.Structure)
}

func TestParseReport_DefaultsScoresThatAreNotAnObject(t *testing.T) {
	for _, scores := range []string{`"n/a"`, `[4, 4, 4]`, `5`, `null`} {
		t.Run(scores, func(t *testing.T) {
			r, err := scoring.ParseReport(`{"scores": ` + scores + `, "strengths": ["Clear"]}`)
			require.NoError(t, err)

			assert.Equal(t, feedback.DefaultScore, r.Scores.Communication)
			assert.Equal(t, feedback.DefaultScore, r.Scores.TechnicalKnowledge)
			assert.Equal(t, feedback.DefaultScore, r.Scores.Structure)
			assert.Equal(t, "Clear", r.Strengths[0])
		})
	}
}

func TestParseReport_FillsMissingItems(t *testing.T) {
	r, err := scoring.ParseReport(`{"strengths": ["Clear examples"], "improvements": []}`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Clear examples",
		"Strong performance demonstrated (strength 2)",
		"Strong performance demonstrated (strength 3)",
	}, r.Strengths)
	assert.Len(t, r.Improvements, feedback.ItemCount)
	assert.Equal(t, "Continue practicing to refine your skills (improvement 1)", r.Improvements[0])
}

func TestParseReport_TruncatesExtraItems(t *testing.T) {
	r, err := scoring.ParseReport(`{"strengths": ["a", "b", "c", "d", "e"], "improvements": ["x", "", 3, "y", "z", "w"]}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, r.Strengths)
	assert.Equal(t, []string{"x", "y", "z"}, r.Improvements)
}

func TestParseReport_ReplacesShortSummary(t *testing.T) {
	r, err := scoring.ParseReport(`{"scores": {"communication": 5, "technical_knowledge": 4, "structure": 4}, "overall_feedback": "Good."}`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.OverallFeedback, "Excellent performance"), "got %q", r.OverallFeedback)
	assert.Contains(t, r.OverallFeedback, "4.3/5")
}
