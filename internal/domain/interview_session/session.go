package interviewsession

import (
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/role"
	"github.com/interviewpartner/backend/internal/id"
)

// MaxFollowUps is the hard cap on follow-ups per main question.
const MaxFollowUps = 3

type State string

const (
	StateCreated   State = "created"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Session is one interview run. Only the orchestrator mutates it, and only
// while holding the session's lock.
type Session struct {
	ID            string
	Role          *role.Role
	Mode          Mode
	State         State
	QuestionIndex int // 0-based; equals len(Role.Questions) once completed
	FollowUpCount int
	Persona       Persona
	Transcript    []Message
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Revision increments on every committed transition. Stores use it to
	// discard snapshots older than what they already hold.
	Revision int
}

// New creates a session in the CREATED state.
func New(r *role.Role, mode Mode, now time.Time) *Session {
	return &Session{
		ID:        id.GenerateID(),
		Role:      r,
		Mode:      mode,
		State:     StateCreated,
		Persona:   PersonaNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start asks the first question and moves the session to ACTIVE.
func (s *Session) Start(now time.Time) (string, error) {
	if s.State != StateCreated {
		return "", apperr.InvalidState("session %s already started", s.ID)
	}
	first := s.Role.Questions[0]
	s.State = StateActive
	s.append(KindQuestion, first, now)
	return first, nil
}

// RecordAnswer appends the candidate's answer and caches the detected persona.
func (s *Session) RecordAnswer(text string, persona Persona, now time.Time) error {
	if s.State != StateActive {
		return apperr.InvalidState("session %s is %s, not active", s.ID, s.State)
	}
	s.append(KindAnswer, text, now)
	s.Persona = persona
	return nil
}

// AskFollowUp appends a follow-up for the current question.
func (s *Session) AskFollowUp(text string, now time.Time) error {
	if s.State != StateActive {
		return apperr.InvalidState("session %s is %s, not active", s.ID, s.State)
	}
	if s.FollowUpCount >= MaxFollowUps {
		return apperr.InvalidState("question %d already has %d follow-ups", s.QuestionNumber(), MaxFollowUps)
	}
	s.FollowUpCount++
	s.append(KindFollowUp, text, now)
	return nil
}

// Advance moves past the current question. It returns the next question
// text, or done=true when the last question has been answered and the
// session is now COMPLETED.
func (s *Session) Advance(now time.Time) (next string, done bool, err error) {
	if s.State != StateActive {
		return "", false, apperr.InvalidState("session %s is %s, not active", s.ID, s.State)
	}
	s.QuestionIndex++
	s.FollowUpCount = 0
	if s.QuestionIndex >= len(s.Role.Questions) {
		s.QuestionIndex = len(s.Role.Questions)
		s.State = StateCompleted
		s.touch(now)
		return "", true, nil
	}
	next = s.Role.Questions[s.QuestionIndex]
	s.append(KindQuestion, next, now)
	return next, false, nil
}

// CurrentQuestion returns the main question being answered, or "" once the
// session is completed.
func (s *Session) CurrentQuestion() string {
	if s.QuestionIndex >= len(s.Role.Questions) {
		return ""
	}
	return s.Role.Questions[s.QuestionIndex]
}

// LastPrompt returns the most recent question or follow-up sent to the
// candidate.
func (s *Session) LastPrompt() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Kind.IsPrompt() {
			return s.Transcript[i].Text
		}
	}
	return ""
}

// QuestionNumber is the 1-based number of the current main question,
// capped at the total.
func (s *Session) QuestionNumber() int {
	n := s.QuestionIndex + 1
	if total := s.TotalQuestions(); n > total {
		return total
	}
	return n
}

func (s *Session) TotalQuestions() int {
	return len(s.Role.Questions)
}

// Progress summarizes how far the session has come.
type Progress struct {
	CurrentQuestion int     `json:"current_question"`
	TotalQuestions  int     `json:"total_questions"`
	Answered        int     `json:"questions_answered"`
	FollowUpCount   int     `json:"followup_count"`
	Percent         float64 `json:"progress_percentage"`
}

func (s *Session) Progress() Progress {
	total := s.TotalQuestions()
	p := Progress{
		CurrentQuestion: s.QuestionNumber(),
		TotalQuestions:  total,
		Answered:        s.QuestionIndex,
		FollowUpCount:   s.FollowUpCount,
	}
	if total > 0 {
		p.Percent = float64(s.QuestionIndex) / float64(total) * 100
	}
	return p
}

// Clone returns a deep copy safe to hand to another goroutine. The role is
// shared since roles are immutable.
func (s *Session) Clone() *Session {
	c := *s
	c.Transcript = append([]Message(nil), s.Transcript...)
	return &c
}

func (s *Session) append(kind MessageKind, text string, now time.Time) {
	s.Transcript = append(s.Transcript, Message{
		Seq:       len(s.Transcript),
		Kind:      kind,
		Text:      text,
		Timestamp: now,
	})
	s.touch(now)
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
	s.Revision++
}
