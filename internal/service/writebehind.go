package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/store"
	"github.com/interviewpartner/backend/internal/worker"
)

// WriteBehind persists snapshots on a worker pool so state transitions never
// wait on storage. Failures and dropped writes are logged, never returned.
type WriteBehind struct {
	store  store.Store
	pool   *worker.Pool[error]
	logger *slog.Logger
	done   chan struct{}
}

func NewWriteBehind(st store.Store, workers, buffer int, logger *slog.Logger) *WriteBehind {
	w := &WriteBehind{
		store:  st,
		pool:   worker.NewPool[error](workers, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *WriteBehind) drain() {
	defer close(w.done)
	for res := range w.pool.Results() {
		if res.Output != nil {
			w.warn(res.JobID, "persistence failed", res.Output)
		}
	}
}

// SaveSession queues a snapshot. snap must not be shared with the live
// session.
func (w *WriteBehind) SaveSession(snap *interviewsession.Session) {
	ok := w.pool.TrySubmit(snap.ID, func() error {
		return w.store.SaveSession(context.Background(), snap)
	})
	if !ok {
		w.warn(snap.ID, "persistence queue full, session snapshot dropped", nil)
	}
}

func (w *WriteBehind) SaveFeedback(r *feedback.Report) {
	ok := w.pool.TrySubmit(r.SessionID, func() error {
		return w.store.SaveFeedback(context.Background(), r)
	})
	if !ok {
		w.warn(r.SessionID, "persistence queue full, feedback dropped", nil)
	}
}

// Close flushes queued writes and stops the workers.
func (w *WriteBehind) Close() {
	w.pool.Close()
	<-w.done
}

func (w *WriteBehind) warn(sessionID, msg string, cause error) {
	err := apperr.ErrPersistence
	if cause != nil {
		err = fmt.Errorf("%w: %w", apperr.ErrPersistence, cause)
	}
	w.logger.Warn(msg, "kind", "persistence_warning", "session_id", sessionID, "error", err)
}
