package interviewsession

// Outcome is the result of processing one answer. It is one of FollowUp,
// NextQuestion or Complete.
type Outcome interface {
	outcome()
}

// FollowUp asks a clarifying question about the current main question.
// Text is what the transcript records; Display is the persona-adapted
// wording shown to the candidate.
type FollowUp struct {
	Text           string
	Display        string
	QuestionNumber int
	FollowUpCount  int
}

// NextQuestion moves the interview to question Number (1-based) of Total.
type NextQuestion struct {
	Text    string
	Display string
	Number  int
	Total   int
}

// Complete means every question has been answered.
type Complete struct {
	Message string
}

func (FollowUp) outcome()     {}
func (NextQuestion) outcome() {}
func (Complete) outcome()     {}
