package prompt

import (
	"fmt"

	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/domain/role"
)

var transitions = []string{
	"Great, let's move on to the next question.",
	"Thank you for that response. Let's continue.",
	"Now, let's discuss another aspect.",
	"Moving forward.",
	"That's helpful. Let's explore another area.",
}

// Intro is the greeting shown when a session starts.
func Intro(r *role.Role, mode interviewsession.Mode) string {
	return fmt.Sprintf(`Welcome to your %s interview practice session!

I'll ask you %d questions about the role. Answer as you would in a real interview and take your time.
I may ask follow-up questions to dig deeper, and at the end you'll receive detailed feedback on your performance.

We'll be using %s mode for this session.`, r.DisplayName, r.TotalQuestions(), mode)
}

// Completion is shown once the last question has been answered.
func Completion() string {
	return "Thank you for completing the interview! You've answered all the questions. " +
		"Request your feedback to see scores for communication, technical knowledge and structure, " +
		"along with specific strengths and areas for improvement."
}

// Transition picks a bridge phrase between two question numbers. The same
// pair always yields the same phrase.
func Transition(from, to int) string {
	return transitions[(from+to)%len(transitions)]
}

// FormatQuestion adds the "Question N of M" header and persona hints.
func FormatQuestion(text string, number, total int, p interviewsession.Persona) string {
	out := fmt.Sprintf("Question %d of %d:\n\n%s", number, total, text)
	switch p {
	case interviewsession.PersonaConfused:
		out += "\n\n(Take your time to think it through. Feel free to ask for clarification.)"
	case interviewsession.PersonaChatty:
		out += "\n\n(Please keep your response focused on the key points.)"
	}
	return out
}

// NextQuestionDisplay combines the transition and the formatted question.
// Efficient candidates get the question without the bridge phrase.
func NextQuestionDisplay(text string, number, total int, p interviewsession.Persona) string {
	q := FormatQuestion(text, number, total, p)
	if p == interviewsession.PersonaEfficient {
		return q
	}
	return Transition(number-1, number) + "\n\n" + q
}

// AdaptFollowUp wraps a follow-up question in persona-specific framing.
func AdaptFollowUp(text string, p interviewsession.Persona) string {
	switch p {
	case interviewsession.PersonaConfused:
		return "Let me help clarify: " + text + " Take your time and feel free to ask if anything is unclear."
	case interviewsession.PersonaChatty:
		return "Thank you for sharing. Let's focus on the key point: " + text
	case interviewsession.PersonaEdgeCase:
		return "Let's stay within the scope of the interview. " + text
	default:
		return text
	}
}
