// Package llmtest provides a scripted llm.Gateway for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/interviewpartner/backend/internal/llm"
)

// Reply is one scripted result: Text on success, Err otherwise.
type Reply struct {
	Text string
	Err  error
}

// Gateway replays scripted replies in order. With Respond set, calls
// beyond the script are answered by Respond instead of failing.
type Gateway struct {
	mu       sync.Mutex
	replies  []Reply
	requests []llm.CompletionRequest

	Healthy bool
	Respond func(req llm.CompletionRequest) (string, error)
}

var _ llm.Gateway = (*Gateway)(nil)

// New returns a healthy gateway with the given script.
func New(replies ...Reply) *Gateway {
	return &Gateway{replies: replies, Healthy: true}
}

// Text is shorthand for a successful reply.
func Text(s string) Reply { return Reply{Text: s} }

// Fail is shorthand for a failed reply.
func Fail(err error) Reply { return Reply{Err: err} }

func (g *Gateway) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	if len(g.replies) > 0 {
		r := g.replies[0]
		g.replies = g.replies[1:]
		g.mu.Unlock()
		return r.Text, r.Err
	}
	respond := g.Respond
	g.mu.Unlock()

	if respond != nil {
		return respond(req)
	}
	return "", fmt.Errorf("llmtest: no scripted reply for call %d", len(g.Requests()))
}

func (g *Gateway) HealthCheck(context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Healthy
}

// Push appends replies to the script.
func (g *Gateway) Push(replies ...Reply) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, replies...)
}

// Requests returns a copy of every request received so far.
func (g *Gateway) Requests() []llm.CompletionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]llm.CompletionRequest(nil), g.requests...)
}

// Calls returns the number of Complete calls made.
func (g *Gateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// Rule answers Text to any prompt containing Contains.
type Rule struct {
	Contains string
	Text     string
}

// ByPrompt answers from the first matching rule. It is a convenient
// Respond for long-running or concurrent tests.
func ByPrompt(rules ...Rule) func(llm.CompletionRequest) (string, error) {
	return func(req llm.CompletionRequest) (string, error) {
		for _, r := range rules {
			if strings.Contains(req.Prompt, r.Contains) {
				return r.Text, nil
			}
		}
		return "", fmt.Errorf("llmtest: no rule matches prompt")
	}
}
