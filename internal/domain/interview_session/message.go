package interviewsession

import "time"

type MessageKind string

const (
	KindQuestion MessageKind = "question"
	KindAnswer   MessageKind = "answer"
	KindFollowUp MessageKind = "followup"
)

// IsPrompt reports whether the message was sent to the candidate.
func (k MessageKind) IsPrompt() bool {
	return k == KindQuestion || k == KindFollowUp
}

// Message is one transcript entry. Seq is the 0-based position in the
// transcript and never changes once assigned.
type Message struct {
	Seq       int         `json:"seq"`
	Kind      MessageKind `json:"kind"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}
