// Package store persists interview sessions, transcripts and feedback
// reports. Stores are pure CRUD; they hold no interview logic.
package store

import (
	"context"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

var ErrNotFound = apperr.ErrNotFound

// MaxHistoryLimit caps how many sessions LoadHistory returns.
const MaxHistoryLimit = 1000

// Store is implemented by SQLiteStore, MemoryStore and MySQLStore.
type Store interface {
	// SaveSession upserts a session snapshot. A snapshot whose Revision is
	// not newer than the stored one leaves the session row untouched;
	// transcript messages are inserted idempotently by sequence number.
	SaveSession(ctx context.Context, s *interviewsession.Session) error
	// SaveFeedback stores a report. The first report for a session wins.
	SaveFeedback(ctx context.Context, r *feedback.Report) error
	GetSession(ctx context.Context, id string) (*StoredSession, error)
	LoadHistory(ctx context.Context, limit int) (*History, error)
	Close() error
}

// SessionRecord is a persisted session. It names its role instead of
// holding one, so it stays readable after the role file changes.
type SessionRecord struct {
	ID             string                     `json:"session_id"`
	RoleName       string                     `json:"role"`
	Mode           string                     `json:"mode"`
	State          string                     `json:"state"`
	QuestionIndex  int                        `json:"question_index"`
	FollowUpCount  int                        `json:"followup_count"`
	TotalQuestions int                        `json:"total_questions"`
	Persona        string                     `json:"persona"`
	Revision       int                        `json:"revision"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
	Transcript     []interviewsession.Message `json:"transcript"`
}

// StoredSession is a session with its feedback, if any.
type StoredSession struct {
	Session  SessionRecord    `json:"session"`
	Feedback *feedback.Report `json:"feedback,omitempty"`
}

// HistoryEntry summarizes one past session.
type HistoryEntry struct {
	SessionID    string    `json:"session_id"`
	RoleName     string    `json:"role"`
	Mode         string    `json:"mode"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	HasFeedback  bool      `json:"has_feedback"`
	AverageScore float64   `json:"average_score"` // 0 without feedback
}

// History lists recent sessions, newest first. AverageScore is taken over
// every scored session, not only the listed ones.
type History struct {
	Sessions      []HistoryEntry `json:"sessions"`
	TotalSessions int            `json:"total_sessions"`
	AverageScore  float64        `json:"average_score"`
}

// RecordFromSession converts a live session into its persisted form.
func RecordFromSession(s *interviewsession.Session) SessionRecord {
	return SessionRecord{
		ID:             s.ID,
		RoleName:       s.Role.Name,
		Mode:           string(s.Mode),
		State:          string(s.State),
		QuestionIndex:  s.QuestionIndex,
		FollowUpCount:  s.FollowUpCount,
		TotalQuestions: s.TotalQuestions(),
		Persona:        string(s.Persona),
		Revision:       s.Revision,
		CreatedAt:      s.CreatedAt.UTC(),
		UpdatedAt:      s.UpdatedAt.UTC(),
		Transcript:     append([]interviewsession.Message(nil), s.Transcript...),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
