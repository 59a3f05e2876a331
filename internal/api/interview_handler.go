package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/id"
	"github.com/interviewpartner/backend/internal/store"
)

const defaultHistoryLimit = 50

// ── Request / Response types ────────────────────────────────────────────────

type HealthResponse struct {
	Status         string     `json:"status" example:"ok"`
	LLMAvailable   *bool      `json:"llm_available,omitempty"`
	CheckedAt      *time.Time `json:"checked_at,omitempty"`
	ActiveSessions int        `json:"active_sessions" example:"2"`
}

type RoleResponse struct {
	Name               string            `json:"name" example:"backend_engineer"`
	DisplayName        string            `json:"display_name" example:"Backend Engineer"`
	TotalQuestions     int               `json:"total_questions" example:"8"`
	EvaluationCriteria map[string]string `json:"evaluation_criteria"`
}

type CreateSessionRequest struct {
	Role string `json:"role" example:"backend_engineer"`
	Mode string `json:"mode" example:"chat"`
}

type CreateSessionResponse struct {
	SessionID      string `json:"session_id"`
	Role           string `json:"role" example:"backend_engineer"`
	DisplayName    string `json:"display_name" example:"Backend Engineer"`
	Mode           string `json:"mode" example:"chat"`
	Status         string `json:"status" example:"active"`
	Intro          string `json:"intro"`
	Question       string `json:"question"`
	Display        string `json:"display"`
	QuestionNumber int    `json:"question_number" example:"1"`
	TotalQuestions int    `json:"total_questions" example:"8"`
}

type SessionResponse struct {
	SessionID          string    `json:"session_id"`
	Role               string    `json:"role" example:"backend_engineer"`
	Mode               string    `json:"mode" example:"chat"`
	Status             string    `json:"status" example:"active"`
	CurrentQuestion    int       `json:"current_question" example:"3"`
	TotalQuestions     int       `json:"total_questions" example:"8"`
	QuestionsAnswered  int       `json:"questions_answered" example:"2"`
	FollowUpCount      int       `json:"followup_count" example:"1"`
	Persona            string    `json:"persona" example:"normal"`
	ProgressPercentage float64   `json:"progress_percentage" example:"25"`
	CreatedAt          time.Time `json:"created_at"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// SubmitAnswerResponse is one of three shapes, told apart by Type:
// "followup", "next_question" or "complete".
type SubmitAnswerResponse struct {
	Type           string `json:"type" example:"next_question"`
	Text           string `json:"text,omitempty"`
	Display        string `json:"display,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty" example:"2"`
	TotalQuestions int    `json:"total_questions,omitempty" example:"8"`
	FollowUpCount  int    `json:"followup_count,omitempty" example:"1"`
	Message        string `json:"message,omitempty"`
}

type FeedbackResponse struct {
	feedback.Report
	AverageScore float64 `json:"average_score" example:"4.3"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// healthCheck reports server and model availability.
// @Summary      Health check
// @Description  Reports the most recent background probe of the language model.
// @Tags         System
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", ActiveSessions: h.interviews.ActiveSessions()}
	if h.health != nil {
		if st := h.health.Status(); st.Checked {
			available := st.Healthy
			checkedAt := st.CheckedAt
			resp.LLMAvailable = &available
			resp.CheckedAt = &checkedAt
			if !available {
				resp.Status = "degraded"
			}
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// listRoles lists the roles that can be interviewed for.
// @Summary      List roles
// @Tags         Roles
// @Produce      json
// @Success      200  {array}  RoleResponse
// @Router       /roles [get]
func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.interviews.Roles()
	resp := make([]RoleResponse, len(roles))
	for i, rl := range roles {
		resp[i] = RoleResponse{
			Name:               rl.Name,
			DisplayName:        rl.DisplayName,
			TotalQuestions:     rl.TotalQuestions(),
			EvaluationCriteria: rl.EvaluationCriteria,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// createSession starts an interview.
// @Summary      Start an interview session
// @Description  Creates a session for a role and returns the first question. Fails with 503 when the language model is unreachable.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Role and mode"
// @Success      201   {object}  CreateSessionResponse
// @Failure      400   {object}  map[string]string  "unknown role or invalid mode"
// @Failure      503   {object}  map[string]string  "language model unavailable"
// @Router       /sessions [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Mode == "" {
		req.Mode = string(interviewsession.ModeChat)
	}

	started, err := h.interviews.Create(r.Context(), req.Role, req.Mode)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	s := started.Session
	respondJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID:      s.ID,
		Role:           s.Role.Name,
		DisplayName:    s.Role.DisplayName,
		Mode:           string(s.Mode),
		Status:         string(s.State),
		Intro:          started.Intro,
		Question:       started.Question,
		Display:        started.Display,
		QuestionNumber: s.QuestionNumber(),
		TotalQuestions: s.TotalQuestions(),
	})
}

// sessionID reads the {sessionID} path value. IDs that are not UUIDs can
// never name a session, so they get a 404 without touching the service.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.PathValue("sessionID")
	if !id.Valid(sessionID) {
		h.writeServiceError(w, r, apperr.NotFound("session %s not found", sessionID))
		return "", false
	}
	return sessionID, true
}

// getSession returns the progress of a live session.
// @Summary      Get session progress
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	s, err := h.interviews.Session(sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p := s.Progress()
	persona := s.Persona
	if persona == "" {
		persona = interviewsession.PersonaNormal
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		SessionID:          s.ID,
		Role:               s.Role.Name,
		Mode:               string(s.Mode),
		Status:             string(s.State),
		CurrentQuestion:    p.CurrentQuestion,
		TotalQuestions:     p.TotalQuestions,
		QuestionsAnswered:  p.Answered,
		FollowUpCount:      p.FollowUpCount,
		Persona:            string(persona),
		ProgressPercentage: p.Percent,
		CreatedAt:          s.CreatedAt,
	})
}

// submitAnswer processes one answer.
// @Summary      Submit an answer
// @Description  Returns a follow-up, the next question, or the completion message.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session ID"
// @Param        body       body      SubmitAnswerRequest  true  "Answer text"
// @Success      200        {object}  SubmitAnswerResponse
// @Failure      400        {object}  map[string]string  "empty or oversized answer"
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session already completed"
// @Router       /sessions/{sessionID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.interviews.ProcessAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var resp SubmitAnswerResponse
	switch o := out.(type) {
	case interviewsession.FollowUp:
		resp = SubmitAnswerResponse{
			Type:           "followup",
			Text:           o.Text,
			Display:        o.Display,
			QuestionNumber: o.QuestionNumber,
			FollowUpCount:  o.FollowUpCount,
		}
	case interviewsession.NextQuestion:
		resp = SubmitAnswerResponse{
			Type:           "next_question",
			Text:           o.Text,
			Display:        o.Display,
			QuestionNumber: o.Number,
			TotalQuestions: o.Total,
		}
	case interviewsession.Complete:
		resp = SubmitAnswerResponse{Type: "complete", Message: o.Message}
	}
	respondJSON(w, http.StatusOK, resp)
}

// getFeedback scores a completed session.
// @Summary      Get feedback
// @Description  Scores a completed session. Repeated calls return the same report.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  FeedbackResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session not completed"
// @Failure      502        {object}  map[string]string  "unusable model output"
// @Failure      503        {object}  map[string]string  "language model unavailable"
// @Failure      504        {object}  map[string]string  "feedback deadline exceeded"
// @Router       /sessions/{sessionID}/feedback [post]
func (h *Handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	report, err := h.interviews.Score(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, FeedbackResponse{Report: *report, AverageScore: report.Scores.Average()})
}

// getTranscript returns the full transcript and feedback of a session.
// @Summary      Get transcript
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  store.StoredSession
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID}/transcript [get]
func (h *Handler) getTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	stored, err := h.interviews.Transcript(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

// getHistory lists past sessions.
// @Summary      Session history
// @Description  Newest sessions first, with the average score over every scored session.
// @Tags         History
// @Produce      json
// @Param        limit  query     int  false  "Number of sessions (1-1000)"  default(50)
// @Success      200    {object}  store.History
// @Failure      400    {object}  map[string]string
// @Router       /history [get]
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	history, err := h.interviews.History(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if history.Sessions == nil {
		history.Sessions = []store.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, history)
}
