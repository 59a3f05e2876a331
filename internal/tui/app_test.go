package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewpartner/backend/internal/catalog"
	"github.com/interviewpartner/backend/internal/llm/llmtest"
	"github.com/interviewpartner/backend/internal/service"
	"github.com/interviewpartner/backend/internal/store"
)

func newTestApp(t *testing.T, g *llmtest.Gateway) *App {
	t.Helper()
	cat, err := catalog.Load("../../config/roles.yaml")
	require.NoError(t, err)
	svc := service.NewInterviewService(cat, g, store.NewMemory(), service.Config{},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(svc.Close)

	app := NewApp(svc)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

func completeGateway() *llmtest.Gateway {
	g := llmtest.New()
	g.Respond = llmtest.ByPrompt(
		llmtest.Rule{Contains: "Decide whether the candidate's answer", Text: `{"complete": true, "reason": "ok"}`},
		llmtest.Rule{Contains: "expert interview coach", Text: `{"scores": {"communication": 5, "technical_knowledge": 4, "structure": 4},
			"strengths": ["Clear"], "improvements": ["Depth"], "overall_feedback": "ok"}`},
	)
	return g
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestRoleListShowsCatalog(t *testing.T) {
	app := newTestApp(t, completeGateway())

	view := app.View()
	assert.Contains(t, view, "Backend Engineer")
	assert.Contains(t, view, "8 questions")
}

func TestInterviewFlow(t *testing.T) {
	app := newTestApp(t, completeGateway())

	_, cmd := app.Update(enter())
	require.NotNil(t, cmd)
	assert.Equal(t, stateWaiting, app.state)

	app.Update(app.start("backend_engineer")())
	require.Equal(t, stateAnswering, app.state)
	require.NotEmpty(t, app.sessionID)
	assert.Contains(t, app.View(), "Question 1 of 8:")

	for i := 0; i < 8; i++ {
		app.input.SetValue("  I would profile first and then fix the hottest path.  ")
		app.Update(enter())
		require.Equal(t, stateWaiting, app.state)
		assert.Empty(t, app.input.Value())

		app.Update(app.answer("I would profile first and then fix the hottest path.")())
	}
	assert.Equal(t, stateWaiting, app.state, "scoring starts after the last answer")

	app.Update(app.score()())
	require.Equal(t, stateDone, app.state)
	require.NoError(t, app.err)
	require.NotNil(t, app.report)

	view := app.View()
	assert.Contains(t, view, "Communication 5/5")
	assert.Equal(t, 8, strings.Count(view, "You: "))
}

func TestStartErrorReturnsToRoleList(t *testing.T) {
	g := completeGateway()
	g.Healthy = false
	app := newTestApp(t, g)

	app.Update(enter())
	app.Update(app.start("backend_engineer")())
	assert.Equal(t, stateSelectRole, app.state)
	assert.Contains(t, app.View(), "not available")
}

func TestBlankAnswerIsIgnored(t *testing.T) {
	app := newTestApp(t, completeGateway())
	app.Update(enter())
	app.Update(app.start("backend_engineer")())

	app.input.SetValue("   ")
	_, cmd := app.Update(enter())
	assert.Nil(t, cmd)
	assert.Equal(t, stateAnswering, app.state)
}

func TestEscQuits(t *testing.T) {
	app := newTestApp(t, completeGateway())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
