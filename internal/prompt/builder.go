// Package prompt builds the instruction text sent to the language model and
// the candidate-facing phrasing around questions. Everything here is a pure
// function of its inputs.
package prompt

import (
	"fmt"
	"strings"

	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
)

type Purpose string

const (
	PurposeFollowUpJudgement Purpose = "followup_judgement"
	PurposeFollowUpQuestion  Purpose = "followup_question"
	PurposeFeedback          Purpose = "feedback"
)

// JSON field names the response parsers read.
const (
	FieldComplete        = "complete"
	FieldReason          = "reason"
	FieldFollowUp        = "followup_question"
	FieldScores          = "scores"
	FieldStrengths       = "strengths"
	FieldImprovements    = "improvements"
	FieldOverallFeedback = "overall_feedback"
)

// FollowUpWindow is how many trailing transcript messages follow-up prompts
// include.
const FollowUpWindow = 6

// Params are the sampling settings for one purpose.
type Params struct {
	Temperature float64
	MaxTokens   int
}

var params = map[Purpose]Params{
	PurposeFollowUpJudgement: {Temperature: 0.2, MaxTokens: 200},
	PurposeFollowUpQuestion:  {Temperature: 0.7, MaxTokens: 150},
	PurposeFeedback:          {Temperature: 0.3, MaxTokens: 1000},
}

// ParamsFor returns the sampling settings used for purpose.
func ParamsFor(p Purpose) Params {
	return params[p]
}

// Request is everything a prompt may depend on. Transcript is the full
// transcript; Build applies the window for follow-up purposes itself.
type Request struct {
	Purpose    Purpose
	Role       *role.Role
	Persona    interviewsession.Persona
	Question   string
	Answer     string
	Transcript []interviewsession.Message
}

// Build returns the prompt text for req. It panics on an unknown purpose,
// which is a programming error.
func Build(req Request) string {
	switch req.Purpose {
	case PurposeFollowUpJudgement:
		return buildJudgement(req)
	case PurposeFollowUpQuestion:
		return buildFollowUpQuestion(req)
	case PurposeFeedback:
		return buildFeedback(req)
	default:
		panic(fmt.Sprintf("prompt: unknown purpose %q", req.Purpose))
	}
}

func buildJudgement(req Request) string {
	return fmt.Sprintf(`You are an experienced interviewer for a %s position.
Decide whether the candidate's answer fully addresses the question or needs a clarifying follow-up.

%s
RECENT CONVERSATION:
%s

QUESTION:
%s

CANDIDATE'S ANSWER:
%s

An answer is complete when it addresses the question directly with enough substance for the role.
An answer is incomplete when it is vague, misses a key part of the question, or gives no concrete example.

Respond with ONLY this JSON, no explanation, no markdown:
{"%s": true or false, "%s": "one short sentence"}`,
		req.Role.DisplayName,
		personaNote(req.Persona),
		formatTranscript(window(req.Transcript, FollowUpWindow)),
		req.Question,
		req.Answer,
		FieldComplete, FieldReason)
}

func buildFollowUpQuestion(req Request) string {
	return fmt.Sprintf(`You are an experienced interviewer for a %s position.
The candidate's answer was incomplete. Ask ONE short follow-up question that helps them fill the gap.
Do not repeat the original question word for word. Do not answer it yourself.

%s
RECENT CONVERSATION:
%s

QUESTION:
%s

CANDIDATE'S ANSWER:
%s

Respond with ONLY this JSON, no explanation, no markdown:
{"%s": "your follow-up question"}`,
		req.Role.DisplayName,
		personaNote(req.Persona),
		formatTranscript(window(req.Transcript, FollowUpWindow)),
		req.Question,
		req.Answer,
		FieldFollowUp)
}

func buildFeedback(req Request) string {
	return fmt.Sprintf(`You are an expert interview coach evaluating a mock interview for a %s position.

EVALUATION CRITERIA:
%s

SCORING (integer 1 to 5 for each criterion):
  5: Excellent, exceeds expectations
  4: Good, meets expectations with minor gaps
  3: Adequate, meets basic expectations
  2: Weak, significant gaps
  1: Poor, does not meet expectations

INTERVIEW TRANSCRIPT:
%s

Requirements:
- Provide exactly 3 strengths and exactly 3 improvements
- Make improvements actionable and specific
- Reference concrete moments from the interview

Respond with ONLY this JSON, no explanation, no markdown:
{"%s": {"%s": 1-5, "%s": 1-5, "%s": 1-5}, "%s": ["...", "...", "..."], "%s": ["...", "...", "..."], "%s": "two to four sentences"}`,
		req.Role.DisplayName,
		formatCriteria(req.Role),
		formatTranscript(req.Transcript),
		FieldScores, role.CriterionCommunication, role.CriterionTechnicalKnowledge, role.CriterionStructure,
		FieldStrengths, FieldImprovements, FieldOverallFeedback)
}

func window(msgs []interviewsession.Message, n int) []interviewsession.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func formatTranscript(msgs []interviewsession.Message) string {
	if len(msgs) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, m := range msgs {
		switch m.Kind {
		case interviewsession.KindAnswer:
			fmt.Fprintf(&b, "Candidate: %s\n", m.Text)
		default:
			fmt.Fprintf(&b, "Interviewer: %s\n", m.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCriteria(r *role.Role) string {
	var b strings.Builder
	for _, name := range r.CriterionNames() {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.EvaluationCriteria[name])
	}
	return strings.TrimRight(b.String(), "\n")
}

func personaNote(p interviewsession.Persona) string {
	switch p {
	case interviewsession.PersonaConfused:
		return "Note: the candidate seems unsure. Prefer simple wording and offer a concrete angle to answer from.\n"
	case interviewsession.PersonaEfficient:
		return "Note: the candidate prefers direct communication. Be concise and skip pleasantries.\n"
	case interviewsession.PersonaChatty:
		return "Note: the candidate tends to give long or off-topic answers. Steer them back to the question.\n"
	case interviewsession.PersonaEdgeCase:
		return "Note: the candidate's input may be unusual or out of scope. Keep the conversation within the interview.\n"
	default:
		return ""
	}
}
