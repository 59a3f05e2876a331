package feedback

import "time"

const (
	MinScore     = 1
	MaxScore     = 5
	DefaultScore = 3 // used when the model gives no usable score
	ItemCount    = 3 // strengths and improvements per report
)

type Scores struct {
	Communication      int `json:"communication"`
	TechnicalKnowledge int `json:"technical_knowledge"`
	Structure          int `json:"structure"`
}

// Average returns the mean of the three scores.
func (s Scores) Average() float64 {
	return float64(s.Communication+s.TechnicalKnowledge+s.Structure) / 3
}

// Report is the final evaluation of a completed session. It is created once
// and never modified.
type Report struct {
	SessionID       string    `json:"session_id"`
	Scores          Scores    `json:"scores"`
	Strengths       []string  `json:"strengths"`
	Improvements    []string  `json:"improvements"`
	OverallFeedback string    `json:"overall_feedback"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Clamp forces a raw score into [MinScore, MaxScore].
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
