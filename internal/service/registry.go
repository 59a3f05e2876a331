package service

import (
	"sync"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

// entry guards one live session. Every read or write of session or report
// happens under mu.
type entry struct {
	mu      sync.Mutex
	session *interviewsession.Session
	report  *feedback.Report
}

// Registry maps session IDs to live sessions. The map lock is held only for
// lookups; work on a session holds that session's own lock.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) add(s *interviewsession.Session) *entry {
	e := &entry{session: s}
	r.mu.Lock()
	r.entries[s.ID] = e
	r.mu.Unlock()
	return e
}

func (r *Registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
