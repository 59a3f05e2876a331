// Package tui is a terminal chat client for practicing interviews. It runs
// the orchestrator in-process and speaks to it in plain text.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
	"github.com/interviewpartner/backend/internal/service"
)

// Interviewer is the part of the orchestrator the client drives.
type Interviewer interface {
	Roles() []*role.Role
	Create(ctx context.Context, roleName, mode string) (*service.Started, error)
	ProcessAnswer(ctx context.Context, sessionID, answer string) (interviewsession.Outcome, error)
	Score(ctx context.Context, sessionID string) (*feedback.Report, error)
}

type appState int

const (
	stateSelectRole appState = iota
	stateAnswering
	stateWaiting
	stateDone
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	interviewerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	candidateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	scoreStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
)

type roleItem struct {
	name  string
	title string
	desc  string
}

func (i roleItem) Title() string       { return i.title }
func (i roleItem) Description() string { return i.desc }
func (i roleItem) FilterValue() string { return i.name }

type line struct {
	candidate bool
	text      string
}

type sessionStartedMsg struct {
	started *service.Started
	err     error
}

type answerProcessedMsg struct {
	outcome interviewsession.Outcome
	err     error
}

type feedbackMsg struct {
	report *feedback.Report
	err    error
}

// App is the bubbletea model.
type App struct {
	interviews Interviewer
	state      appState

	roles   list.Model
	input   textinput.Model
	spinner spinner.Model

	sessionID string
	lines     []line
	report    *feedback.Report
	err       error

	width  int
	height int
}

func NewApp(interviews Interviewer) *App {
	var items []list.Item
	for _, r := range interviews.Roles() {
		items = append(items, roleItem{
			name:  r.Name,
			title: r.DisplayName,
			desc:  fmt.Sprintf("%d questions", r.TotalQuestions()),
		})
	}
	roles := list.New(items, list.NewDefaultDelegate(), 0, 0)
	roles.Title = "Choose a role to practice"
	roles.SetShowStatusBar(false)
	roles.SetFilteringEnabled(false)

	input := textinput.New()
	input.Placeholder = "Type your answer and press Enter"
	input.CharLimit = 0

	return &App{
		interviews: interviews,
		state:      stateSelectRole,
		roles:      roles,
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.roles.SetSize(max(0, msg.Width-4), max(0, msg.Height-4))
		a.input.Width = max(20, msg.Width-6)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit
		case "enter":
			return a.submit()
		}

	case sessionStartedMsg:
		if msg.err != nil {
			a.err = msg.err
			a.state = stateSelectRole
			return a, nil
		}
		a.err = nil
		a.sessionID = msg.started.Session.ID
		a.say(msg.started.Intro)
		a.say(msg.started.Display)
		a.state = stateAnswering
		return a, a.input.Focus()

	case answerProcessedMsg:
		if msg.err != nil {
			a.err = msg.err
			a.state = stateAnswering
			return a, a.input.Focus()
		}
		a.err = nil
		switch o := msg.outcome.(type) {
		case interviewsession.FollowUp:
			a.say(o.Display)
		case interviewsession.NextQuestion:
			a.say(o.Display)
		case interviewsession.Complete:
			a.say(o.Message)
			a.state = stateWaiting
			return a, tea.Batch(a.spinner.Tick, a.score())
		}
		a.state = stateAnswering
		return a, a.input.Focus()

	case feedbackMsg:
		a.state = stateDone
		a.report = msg.report
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.state != stateWaiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.state {
	case stateSelectRole:
		a.roles, cmd = a.roles.Update(msg)
	case stateAnswering:
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateSelectRole:
		item, ok := a.roles.SelectedItem().(roleItem)
		if !ok {
			return a, nil
		}
		a.state = stateWaiting
		return a, tea.Batch(a.spinner.Tick, a.start(item.name))

	case stateAnswering:
		answer := strings.TrimSpace(a.input.Value())
		if answer == "" {
			return a, nil
		}
		a.input.Reset()
		a.input.Blur()
		a.lines = append(a.lines, line{candidate: true, text: answer})
		a.state = stateWaiting
		return a, tea.Batch(a.spinner.Tick, a.answer(answer))

	case stateDone:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) say(text string) {
	a.lines = append(a.lines, line{text: text})
}

func (a *App) start(roleName string) tea.Cmd {
	return func() tea.Msg {
		started, err := a.interviews.Create(context.Background(), roleName, string(interviewsession.ModeChat))
		return sessionStartedMsg{started: started, err: err}
	}
}

func (a *App) answer(text string) tea.Cmd {
	id := a.sessionID
	return func() tea.Msg {
		out, err := a.interviews.ProcessAnswer(context.Background(), id, text)
		return answerProcessedMsg{outcome: out, err: err}
	}
}

func (a *App) score() tea.Cmd {
	id := a.sessionID
	return func() tea.Msg {
		report, err := a.interviews.Score(context.Background(), id)
		return feedbackMsg{report: report, err: err}
	}
}

func (a *App) View() string {
	if a.state == stateSelectRole {
		view := a.roles.View()
		if a.err != nil {
			view += "\n" + errorStyle.Render(a.err.Error())
		}
		return view
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Interview practice") + "\n\n")
	width := max(20, a.width-2)
	for _, l := range a.lines {
		if l.candidate {
			b.WriteString(candidateStyle.Width(width).Render("You: "+l.text) + "\n\n")
		} else {
			b.WriteString(interviewerStyle.Width(width).Render(l.text) + "\n\n")
		}
	}

	if a.report != nil {
		b.WriteString(renderReport(a.report))
	}
	if a.err != nil {
		b.WriteString(errorStyle.Render("Error: "+a.err.Error()) + "\n")
	}

	switch a.state {
	case stateWaiting:
		b.WriteString(a.spinner.View() + " thinking...\n")
	case stateAnswering:
		b.WriteString(a.input.View() + "\n")
		b.WriteString(hintStyle.Render("enter: send · esc: quit") + "\n")
	case stateDone:
		b.WriteString(hintStyle.Render("enter or esc: quit") + "\n")
	}
	return b.String()
}

func renderReport(r *feedback.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Feedback") + "\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf(
		"Communication %d/5 · Technical knowledge %d/5 · Structure %d/5 · Average %.1f",
		r.Scores.Communication, r.Scores.TechnicalKnowledge, r.Scores.Structure, r.Scores.Average(),
	)) + "\n\nStrengths:\n")
	for _, s := range r.Strengths {
		b.WriteString("  + " + s + "\n")
	}
	b.WriteString("\nImprovements:\n")
	for _, s := range r.Improvements {
		b.WriteString("  - " + s + "\n")
	}
	b.WriteString("\n" + r.OverallFeedback + "\n\n")
	return b.String()
}
