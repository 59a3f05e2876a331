package store

import (
	"context"
	"sort"
	"sync"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

// MemoryStore keeps everything in process memory. Used by tests, the
// terminal client and STORE_BACKEND=memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionRecord
	feedback map[string]*feedback.Report
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionRecord),
		feedback: make(map[string]*feedback.Report),
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, sess *interviewsession.Session) error {
	rec := RecordFromSession(sess)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[rec.ID]
	if !ok {
		m.sessions[rec.ID] = &rec
		return nil
	}

	// Messages are append-only; only add sequence numbers not yet stored.
	for _, msg := range rec.Transcript {
		if msg.Seq >= len(existing.Transcript) {
			existing.Transcript = append(existing.Transcript, msg)
		}
	}
	if rec.Revision > existing.Revision {
		transcript := existing.Transcript
		*existing = rec
		existing.Transcript = transcript
	}
	return nil
}

func (m *MemoryStore) SaveFeedback(_ context.Context, r *feedback.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.feedback[r.SessionID]; ok {
		return nil
	}
	cp := *r
	cp.Strengths = append([]string(nil), r.Strengths...)
	cp.Improvements = append([]string(nil), r.Improvements...)
	m.feedback[r.SessionID] = &cp
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*StoredSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := &StoredSession{Session: *rec}
	out.Session.Transcript = append([]interviewsession.Message(nil), rec.Transcript...)
	if r, ok := m.feedback[id]; ok {
		cp := *r
		out.Feedback = &cp
	}
	return out, nil
}

func (m *MemoryStore) LoadHistory(_ context.Context, limit int) (*History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]HistoryEntry, 0, len(m.sessions))
	for _, rec := range m.sessions {
		e := HistoryEntry{
			SessionID: rec.ID,
			RoleName:  rec.RoleName,
			Mode:      rec.Mode,
			State:     rec.State,
			CreatedAt: rec.CreatedAt,
		}
		if r, ok := m.feedback[rec.ID]; ok {
			e.HasFeedback = true
			e.AverageScore = r.Scores.Average()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].SessionID < entries[j].SessionID
	})

	h := &History{TotalSessions: len(entries)}
	if limit = clampLimit(limit); len(entries) > limit {
		entries = entries[:limit]
	}
	h.Sessions = entries

	if len(m.feedback) > 0 {
		var sum float64
		for _, r := range m.feedback {
			sum += r.Scores.Average()
		}
		h.AverageScore = sum / float64(len(m.feedback))
	}
	return h, nil
}

func (m *MemoryStore) Close() error { return nil }
