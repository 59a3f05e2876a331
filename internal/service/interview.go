// Package service runs interview sessions: it owns the live session
// registry and drives each session through its question/follow-up cycle.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/catalog"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
	"github.com/interviewpartner/backend/internal/followup"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/persona"
	"github.com/interviewpartner/backend/internal/prompt"
	"github.com/interviewpartner/backend/internal/scoring"
	"github.com/interviewpartner/backend/internal/store"
)

// MaxAnswerWords bounds a single answer.
const MaxAnswerWords = 2000

// Config tunes an InterviewService. Zero values fall back to defaults.
type Config struct {
	FeedbackDeadline   time.Duration
	WriteBehindWorkers int
	WriteBehindBuffer  int
}

// Started is returned when a session begins.
type Started struct {
	Session  *interviewsession.Session
	Question string
	Intro    string
	Display  string
}

type Option func(*InterviewService)

// WithClock replaces time.Now for session timestamps and the feedback
// deadline.
func WithClock(now func() time.Time) Option {
	return func(s *InterviewService) { s.now = now }
}

// InterviewService is the orchestrator. Sessions are independent; calls on
// the same session are serialized by that session's lock.
type InterviewService struct {
	catalog  *catalog.Catalog
	gateway  llm.Gateway
	policy   *followup.Policy
	scorer   *scoring.Scorer
	store    store.Store
	persist  *WriteBehind
	sessions *Registry
	logger   *slog.Logger
	now      func() time.Time
}

func NewInterviewService(c *catalog.Catalog, g llm.Gateway, st store.Store, cfg Config, logger *slog.Logger, opts ...Option) *InterviewService {
	if cfg.WriteBehindWorkers <= 0 {
		cfg.WriteBehindWorkers = 2
	}
	if cfg.WriteBehindBuffer <= 0 {
		cfg.WriteBehindBuffer = 64
	}

	s := &InterviewService{
		catalog:  c,
		gateway:  g,
		store:    st,
		sessions: NewRegistry(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.policy = followup.NewPolicy(g, logger)
	s.scorer = scoring.NewScorer(g, cfg.FeedbackDeadline, logger, scoring.WithClock(s.now))
	s.persist = NewWriteBehind(st, cfg.WriteBehindWorkers, cfg.WriteBehindBuffer, logger)
	return s
}

// Close flushes pending writes. The service must not be used afterwards.
func (s *InterviewService) Close() {
	s.persist.Close()
}

// ActiveSessions counts sessions held in memory.
func (s *InterviewService) ActiveSessions() int {
	return s.sessions.Len()
}

// Roles lists the interview roles on offer.
func (s *InterviewService) Roles() []*role.Role {
	return s.catalog.List()
}

// Create starts a session for roleName in the given mode ("chat" or
// "voice"). It refuses to start while the model is unreachable.
func (s *InterviewService) Create(ctx context.Context, roleName, mode string) (*Started, error) {
	m, ok := interviewsession.ParseMode(mode)
	if !ok {
		return nil, apperr.Validation("invalid mode %q: must be chat or voice", mode)
	}
	r, err := s.catalog.Get(roleName)
	if err != nil {
		return nil, err
	}
	if !s.gateway.HealthCheck(context.WithoutCancel(ctx)) {
		return nil, apperr.Connection("LLM service is not available, please try again later", nil)
	}

	now := s.now()
	sess := interviewsession.New(r, m, now)
	first, err := sess.Start(now)
	if err != nil {
		return nil, err
	}
	s.sessions.add(sess)
	snap := sess.Clone()
	s.persist.SaveSession(snap)

	s.logger.Info("session started", "session_id", sess.ID, "role", r.Name, "mode", m)

	return &Started{
		Session:  snap,
		Question: first,
		Intro:    prompt.Intro(r, m),
		Display:  prompt.FormatQuestion(first, 1, r.TotalQuestions(), interviewsession.PersonaNormal),
	}, nil
}

// ProcessAnswer applies one answer and returns what the candidate sees next.
// Model failures while deciding on a follow-up never fail the call; the
// interview simply moves on.
func (s *InterviewService) ProcessAnswer(ctx context.Context, sessionID, answer string) (interviewsession.Outcome, error) {
	e, ok := s.sessions.get(sessionID)
	if !ok {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session
	if sess.State != interviewsession.StateActive {
		return nil, apperr.InvalidState("session %s is %s, not active", sess.ID, sess.State)
	}
	text := strings.TrimSpace(answer)
	if text == "" {
		return nil, apperr.Validation("answer cannot be empty")
	}
	if n := len(strings.Fields(text)); n > MaxAnswerWords {
		return nil, apperr.Validation("answer has %d words, the limit is %d", n, MaxAnswerWords)
	}

	question := sess.CurrentQuestion()
	p := persona.Classify(text, sess.Transcript)
	if err := sess.RecordAnswer(text, p, s.now()); err != nil {
		return nil, err
	}

	log := s.logger.With("session_id", sess.ID, "persona", p, "question_number", sess.QuestionNumber())

	// The transition must finish even if the caller goes away mid-call.
	decision := s.policy.Decide(context.WithoutCancel(ctx), sess, text, question)

	var out interviewsession.Outcome
	if decision.Ask {
		if err := sess.AskFollowUp(decision.Text, s.now()); err != nil {
			log.Warn("follow-up rejected, advancing", "error", err)
		} else {
			out = interviewsession.FollowUp{
				Text:           decision.Text,
				Display:        prompt.AdaptFollowUp(decision.Text, p),
				QuestionNumber: sess.QuestionNumber(),
				FollowUpCount:  sess.FollowUpCount,
			}
		}
	}
	if out == nil {
		next, done, err := sess.Advance(s.now())
		if err != nil {
			return nil, err
		}
		if done {
			out = interviewsession.Complete{Message: prompt.Completion()}
		} else {
			total := sess.TotalQuestions()
			number := sess.QuestionNumber()
			out = interviewsession.NextQuestion{
				Text:    next,
				Display: prompt.NextQuestionDisplay(next, number, total, p),
				Number:  number,
				Total:   total,
			}
		}
	}

	s.persist.SaveSession(sess.Clone())
	log.Info("answer processed", "outcome", outcomeName(out), "state", sess.State)
	return out, nil
}

// Score returns the feedback report for a completed session. The model is
// asked once; later calls return the same report.
func (s *InterviewService) Score(ctx context.Context, sessionID string) (*feedback.Report, error) {
	e, ok := s.sessions.get(sessionID)
	if !ok {
		stored, err := s.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if stored.Feedback == nil {
			return nil, apperr.InvalidState("session %s is no longer live and was never scored", sessionID)
		}
		return stored.Feedback, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.report != nil {
		return e.report, nil
	}

	report, err := s.scorer.Score(context.WithoutCancel(ctx), e.session)
	if err != nil {
		s.logger.Error("scoring failed", "session_id", sessionID, "error", err)
		return nil, err
	}
	e.report = report
	s.persist.SaveFeedback(report)

	s.logger.Info("session scored", "session_id", sessionID, "average", report.Scores.Average())
	return report, nil
}

// Session returns a snapshot of a live session.
func (s *InterviewService) Session(sessionID string) (*interviewsession.Session, error) {
	e, ok := s.sessions.get(sessionID)
	if !ok {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Transcript returns the session record with its feedback, if any. Live
// sessions are served from memory, others from the store.
func (s *InterviewService) Transcript(ctx context.Context, sessionID string) (*store.StoredSession, error) {
	e, ok := s.sessions.get(sessionID)
	if !ok {
		return s.store.GetSession(ctx, sessionID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return &store.StoredSession{
		Session:  store.RecordFromSession(e.session.Clone()),
		Feedback: e.report,
	}, nil
}

// History lists the newest persisted sessions. limit must be in
// 1..store.MaxHistoryLimit.
func (s *InterviewService) History(ctx context.Context, limit int) (*store.History, error) {
	if limit < 1 || limit > store.MaxHistoryLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", store.MaxHistoryLimit)
	}
	return s.store.LoadHistory(ctx, limit)
}

func outcomeName(o interviewsession.Outcome) string {
	switch o.(type) {
	case interviewsession.FollowUp:
		return "followup"
	case interviewsession.NextQuestion:
		return "next_question"
	case interviewsession.Complete:
		return "complete"
	default:
		return "unknown"
	}
}
