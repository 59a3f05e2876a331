// Package simulation drives scripted candidates through full interviews in
// parallel, one pool job per session.
package simulation

import (
	"context"
	"fmt"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/service"
	"github.com/interviewpartner/backend/internal/worker"
)

// maxTurns stops a runaway session: 3 follow-ups plus the answer itself for
// each of up to 50 questions.
const maxTurns = 200

// DefaultAnswers rotates through the communication styles the classifier
// knows about.
var DefaultAnswers = []string{
	"At my last job I owned the billing service. I moved it from a cron batch to an event driven design, which cut invoice latency from hours to seconds and made failures visible in our dashboards.",
	"I'm not sure what you mean, could you clarify?",
	"Idempotent consumers, retries with backoff, and a dead letter queue.",
	"I usually start by listening to what the person actually needs, then I narrow it down with a couple of questions before recommending anything specific.",
}

type Options struct {
	Sessions int
	Workers  int
	Role     string
	Mode     string
	Answers  []string // cycled; DefaultAnswers when empty
}

// SessionResult is the outcome of one simulated interview.
type SessionResult struct {
	SessionID string
	Answers   int
	FollowUps int
	Report    *feedback.Report
	Err       error
}

// Run plays opts.Sessions interviews and returns their results in
// completion order.
func Run(ctx context.Context, svc *service.InterviewService, opts Options) []SessionResult {
	if opts.Sessions < 1 {
		opts.Sessions = 1
	}
	if len(opts.Answers) == 0 {
		opts.Answers = DefaultAnswers
	}

	pool := worker.NewPool[SessionResult](opts.Workers, opts.Sessions)
	for i := 0; i < opts.Sessions; i++ {
		offset := i
		pool.Submit(fmt.Sprintf("candidate-%d", i+1), func() SessionResult {
			return interview(ctx, svc, opts, offset)
		})
	}

	results := make([]SessionResult, 0, opts.Sessions)
	for i := 0; i < opts.Sessions; i++ {
		results = append(results, (<-pool.Results()).Output)
	}
	pool.Close()
	return results
}

func interview(ctx context.Context, svc *service.InterviewService, opts Options, offset int) SessionResult {
	started, err := svc.Create(ctx, opts.Role, opts.Mode)
	if err != nil {
		return SessionResult{Err: fmt.Errorf("start session: %w", err)}
	}
	res := SessionResult{SessionID: started.Session.ID}

	for turn := 0; ; turn++ {
		if turn == maxTurns {
			res.Err = fmt.Errorf("session %s did not complete after %d answers", res.SessionID, maxTurns)
			return res
		}
		answer := opts.Answers[(offset+turn)%len(opts.Answers)]
		out, err := svc.ProcessAnswer(ctx, res.SessionID, answer)
		if err != nil {
			res.Err = fmt.Errorf("answer %d: %w", turn+1, err)
			return res
		}
		res.Answers++

		if _, ok := out.(interviewsession.FollowUp); ok {
			res.FollowUps++
		}
		if _, ok := out.(interviewsession.Complete); ok {
			break
		}
	}

	report, err := svc.Score(ctx, res.SessionID)
	if err != nil {
		res.Err = fmt.Errorf("score: %w", err)
		return res
	}
	res.Report = report
	return res
}
