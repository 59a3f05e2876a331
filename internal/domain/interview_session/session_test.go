package interviewsession_test

import (
	"errors"
	"testing"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newRole(t *testing.T, n int) *role.Role {
	t.Helper()
	questions := make([]string, n)
	for i := range questions {
		questions[i] = "Question " + string(rune('A'+i))
	}
	r, err := role.New("test_role", "", questions, map[string]string{
		"communication":       "c",
		"technical_knowledge": "t",
		"structure":           "s",
	})
	if err != nil {
		t.Fatalf("role.New: %v", err)
	}
	return r
}

func startedSession(t *testing.T, n int) *interviewsession.Session {
	t.Helper()
	s := interviewsession.New(newRole(t, n), interviewsession.ModeChat, now)
	if _, err := s.Start(now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStart_AppendsFirstQuestion(t *testing.T) {
	s := interviewsession.New(newRole(t, 2), interviewsession.ModeChat, now)
	if s.State != interviewsession.StateCreated {
		t.Fatalf("expected created state, got %s", s.State)
	}

	first, err := s.Start(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Question A" {
		t.Errorf("expected first question, got %q", first)
	}
	if s.State != interviewsession.StateActive {
		t.Errorf("expected active state, got %s", s.State)
	}
	if len(s.Transcript) != 1 || s.Transcript[0].Kind != interviewsession.KindQuestion {
		t.Errorf("expected one QUESTION message, got %+v", s.Transcript)
	}
	if _, err := s.Start(now); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected second Start to fail with ErrInvalidState, got %v", err)
	}
}

func TestAdvance_CompletesAfterLastQuestion(t *testing.T) {
	s := startedSession(t, 2)

	next, done, err := s.Advance(now)
	if err != nil || done {
		t.Fatalf("expected second question, got done=%v err=%v", done, err)
	}
	if next != "Question B" {
		t.Errorf("expected 'Question B', got %q", next)
	}
	if s.QuestionNumber() != 2 {
		t.Errorf("expected question number 2, got %d", s.QuestionNumber())
	}

	_, done, err = s.Advance(now)
	if err != nil || !done {
		t.Fatalf("expected completion, got done=%v err=%v", done, err)
	}
	if s.State != interviewsession.StateCompleted {
		t.Errorf("expected completed state, got %s", s.State)
	}
	if s.QuestionIndex != 2 {
		t.Errorf("question index must stop at len(questions), got %d", s.QuestionIndex)
	}
	if got := len(s.Transcript); got != 2 {
		t.Errorf("completion must not append a question, transcript has %d messages", got)
	}
}

func TestRecordAnswer_RejectsCompletedSession(t *testing.T) {
	s := startedSession(t, 1)
	if _, _, err := s.Advance(now); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	err := s.RecordAnswer("late answer", interviewsession.PersonaNormal, now)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestAskFollowUp_CappedAtThree(t *testing.T) {
	s := startedSession(t, 2)
	for i := 0; i < interviewsession.MaxFollowUps; i++ {
		if err := s.AskFollowUp("Can you elaborate?", now); err != nil {
			t.Fatalf("follow-up %d: %v", i+1, err)
		}
	}

	if err := s.AskFollowUp("One more?", now); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected 4th follow-up to fail, got %v", err)
	}
	if s.FollowUpCount != interviewsession.MaxFollowUps {
		t.Errorf("expected follow-up count %d, got %d", interviewsession.MaxFollowUps, s.FollowUpCount)
	}

	if _, _, err := s.Advance(now); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.FollowUpCount != 0 {
		t.Errorf("expected follow-up count reset on advance, got %d", s.FollowUpCount)
	}
}

func TestTranscript_SequenceNumbersAreStable(t *testing.T) {
	s := startedSession(t, 2)
	_ = s.RecordAnswer("answer", interviewsession.PersonaNormal, now)
	_ = s.AskFollowUp("follow-up", now)

	for i, m := range s.Transcript {
		if m.Seq != i {
			t.Errorf("message %d has seq %d", i, m.Seq)
		}
	}
	if s.LastPrompt() != "follow-up" {
		t.Errorf("expected last prompt to be the follow-up, got %q", s.LastPrompt())
	}
}

func TestRevision_IncreasesOnEveryTransition(t *testing.T) {
	s := startedSession(t, 2)
	prev := s.Revision

	_ = s.RecordAnswer("answer", interviewsession.PersonaNormal, now)
	if s.Revision <= prev {
		t.Errorf("expected revision to increase after answer")
	}
	prev = s.Revision

	_, _, _ = s.Advance(now)
	if s.Revision <= prev {
		t.Errorf("expected revision to increase after advance")
	}
}

func TestClone_DoesNotShareTranscript(t *testing.T) {
	s := startedSession(t, 2)
	c := s.Clone()

	_ = s.RecordAnswer("answer", interviewsession.PersonaNormal, now)

	if len(c.Transcript) != 1 {
		t.Errorf("clone transcript changed: %d messages", len(c.Transcript))
	}
}

func TestProgress(t *testing.T) {
	s := startedSession(t, 4)
	_, _, _ = s.Advance(now)

	p := s.Progress()
	if p.CurrentQuestion != 2 || p.TotalQuestions != 4 || p.Answered != 1 {
		t.Errorf("unexpected progress %+v", p)
	}
	if p.Percent != 25 {
		t.Errorf("expected 25%%, got %v", p.Percent)
	}
}

func TestParseMode(t *testing.T) {
	for _, raw := range []string{"chat", "voice"} {
		if _, ok := interviewsession.ParseMode(raw); !ok {
			t.Errorf("expected %q to be accepted", raw)
		}
	}
	if _, ok := interviewsession.ParseMode("video"); ok {
		t.Error("expected 'video' to be rejected")
	}
}
