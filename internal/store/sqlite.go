package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

// Timestamps are stored as Unix nanoseconds so they sort numerically.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    role_name TEXT NOT NULL,
    mode TEXT NOT NULL,
    state TEXT NOT NULL,
    question_index INTEGER NOT NULL,
    followup_count INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    persona TEXT NOT NULL,
    revision INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);

CREATE TABLE IF NOT EXISTS messages (
    session_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (session_id, seq),
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);

CREATE TABLE IF NOT EXISTS feedback (
    session_id TEXT PRIMARY KEY,
    communication INTEGER NOT NULL,
    technical_knowledge INTEGER NOT NULL,
    structure INTEGER NOT NULL,
    strengths TEXT NOT NULL,
    improvements TEXT NOT NULL,
    overall_feedback TEXT NOT NULL,
    generated_at INTEGER NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer at a time; write-behind workers would otherwise hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Sessions
// ============================================================================

func (s *SQLiteStore) SaveSession(ctx context.Context, sess *interviewsession.Session) error {
	rec := RecordFromSession(sess)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, role_name, mode, state, question_index, followup_count,
		                      total_questions, persona, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    state = excluded.state,
		    question_index = excluded.question_index,
		    followup_count = excluded.followup_count,
		    persona = excluded.persona,
		    revision = excluded.revision,
		    updated_at = excluded.updated_at
		WHERE excluded.revision > sessions.revision`,
		rec.ID, rec.RoleName, rec.Mode, rec.State, rec.QuestionIndex, rec.FollowUpCount,
		rec.TotalQuestions, rec.Persona, rec.Revision, rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO messages (session_id, seq, kind, text, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range rec.Transcript {
		if _, err := stmt.ExecContext(ctx, rec.ID, m.Seq, string(m.Kind), m.Text, m.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("insert message %d of session %s: %w", m.Seq, rec.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*StoredSession, error) {
	var (
		rec                  SessionRecord
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, role_name, mode, state, question_index, followup_count,
		       total_questions, persona, revision, created_at, updated_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.RoleName, &rec.Mode, &rec.State, &rec.QuestionIndex, &rec.FollowUpCount,
		&rec.TotalQuestions, &rec.Persona, &rec.Revision, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = fromNanos(createdAt)
	rec.UpdatedAt = fromNanos(updatedAt)

	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, kind, text, created_at FROM messages WHERE session_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m    interviewsession.Message
			kind string
			ts   int64
		)
		if err := rows.Scan(&m.Seq, &kind, &m.Text, &ts); err != nil {
			return nil, err
		}
		m.Kind = interviewsession.MessageKind(kind)
		m.Timestamp = fromNanos(ts)
		rec.Transcript = append(rec.Transcript, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report, err := s.getFeedback(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return &StoredSession{Session: rec, Feedback: report}, nil
}

// ============================================================================
// Feedback
// ============================================================================

func (s *SQLiteStore) SaveFeedback(ctx context.Context, r *feedback.Report) error {
	strengths, err := json.Marshal(r.Strengths)
	if err != nil {
		return err
	}
	improvements, err := json.Marshal(r.Improvements)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO feedback (session_id, communication, technical_knowledge, structure,
		                                strengths, improvements, overall_feedback, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Scores.Communication, r.Scores.TechnicalKnowledge, r.Scores.Structure,
		string(strengths), string(improvements), r.OverallFeedback, r.GeneratedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) getFeedback(ctx context.Context, sessionID string) (*feedback.Report, error) {
	var (
		r                       feedback.Report
		strengths, improvements string
		generatedAt             int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, communication, technical_knowledge, structure,
		       strengths, improvements, overall_feedback, generated_at
		FROM feedback WHERE session_id = ?`, sessionID,
	).Scan(&r.SessionID, &r.Scores.Communication, &r.Scores.TechnicalKnowledge, &r.Scores.Structure,
		&strengths, &improvements, &r.OverallFeedback, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(strengths), &r.Strengths); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(improvements), &r.Improvements); err != nil {
		return nil, err
	}
	r.GeneratedAt = fromNanos(generatedAt)
	return &r, nil
}

// ============================================================================
// History
// ============================================================================

func (s *SQLiteStore) LoadHistory(ctx context.Context, limit int) (*History, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.role_name, s.mode, s.state, s.created_at,
		       f.communication, f.technical_knowledge, f.structure
		FROM sessions s
		LEFT JOIN feedback f ON f.session_id = s.id
		ORDER BY s.created_at DESC, s.id
		LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	h := &History{Sessions: []HistoryEntry{}}
	for rows.Next() {
		var (
			e                     HistoryEntry
			createdAt             int64
			comm, tech, structure sql.NullInt64
		)
		if err := rows.Scan(&e.SessionID, &e.RoleName, &e.Mode, &e.State, &createdAt, &comm, &tech, &structure); err != nil {
			return nil, err
		}
		e.CreatedAt = fromNanos(createdAt)
		if comm.Valid {
			e.HasFeedback = true
			e.AverageScore = feedback.Scores{
				Communication:      int(comm.Int64),
				TechnicalKnowledge: int(tech.Int64),
				Structure:          int(structure.Int64),
			}.Average()
		}
		h.Sessions = append(h.Sessions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&h.TotalSessions); err != nil {
		return nil, err
	}
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		"SELECT AVG((communication + technical_knowledge + structure) / 3.0) FROM feedback").Scan(&avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		h.AverageScore = avg.Float64
	}
	return h, nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
