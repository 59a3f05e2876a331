package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/feedback"
	"github.com/interviewpartner/backend/internal/domain/role"
	"github.com/interviewpartner/backend/internal/llm"
)

// MinOverallChars is the shortest model summary kept as-is.
const MinOverallChars = 50

const (
	strengthFiller    = "Strong performance demonstrated"
	improvementFiller = "Continue practicing to refine your skills"
)

type rawReport struct {
	Scores          json.RawMessage `json:"scores"`
	Strengths       json.RawMessage `json:"strengths"`
	Improvements    json.RawMessage `json:"improvements"`
	OverallFeedback json.RawMessage `json:"overall_feedback"`
}

// ParseReport reads the model's feedback JSON and repairs it: scores are
// defaulted and clamped, lists are filled or trimmed to exactly
// feedback.ItemCount, and a short summary is replaced. Only output with no
// usable JSON object at all is an error.
func ParseReport(text string) (*feedback.Report, error) {
	obj := llm.ExtractJSON(text)
	if obj == "" {
		return nil, apperr.Generation("no JSON object in feedback response", nil)
	}
	var raw rawReport
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, apperr.Generation("invalid feedback JSON", err)
	}

	// A scores value that is not an object leaves every score at the default.
	var scores map[string]json.RawMessage
	_ = json.Unmarshal(raw.Scores, &scores)

	r := &feedback.Report{
		Scores: feedback.Scores{
			Communication:      scoreValue(scores[role.CriterionCommunication]),
			TechnicalKnowledge: scoreValue(scores[role.CriterionTechnicalKnowledge]),
			Structure:          scoreValue(scores[role.CriterionStructure]),
		},
		Strengths:    fitItems(stringItems(raw.Strengths), strengthFiller, "strength"),
		Improvements: fitItems(stringItems(raw.Improvements), improvementFiller, "improvement"),
	}

	var overall string
	_ = json.Unmarshal(raw.OverallFeedback, &overall)
	overall = strings.TrimSpace(overall)
	if len([]rune(overall)) < MinOverallChars {
		overall = fallbackOverall(r.Scores)
	}
	r.OverallFeedback = overall
	return r, nil
}

// scoreValue accepts JSON numbers and numeric strings, rounds to the
// nearest integer and clamps. Anything else yields feedback.DefaultScore.
func scoreValue(raw json.RawMessage) int {
	if len(raw) == 0 {
		return feedback.DefaultScore
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return feedback.DefaultScore
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(parsed) {
			return feedback.DefaultScore
		}
		f = parsed
	}
	if f < feedback.MinScore {
		return feedback.MinScore
	}
	if f > feedback.MaxScore {
		return feedback.MaxScore
	}
	return feedback.Clamp(int(math.Round(f)))
}

// stringItems returns the non-blank strings of a JSON array. A lone
// string counts as a one-item list; other shapes yield nothing.
func stringItems(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if json.Unmarshal(raw, &single) == nil && strings.TrimSpace(single) != "" {
			return []string{strings.TrimSpace(single)}
		}
		return nil
	}
	var out []string
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fitItems(items []string, filler, label string) []string {
	if len(items) > feedback.ItemCount {
		items = items[:feedback.ItemCount]
	}
	out := make([]string, 0, feedback.ItemCount)
	out = append(out, items...)
	for len(out) < feedback.ItemCount {
		out = append(out, fmt.Sprintf("%s (%s %d)", filler, label, len(out)+1))
	}
	return out
}

func fallbackOverall(s feedback.Scores) string {
	avg := s.Average()
	switch {
	case avg >= 4:
		return fmt.Sprintf("Excellent performance overall with an average score of %.1f/5. "+
			"You communicated clearly, showed solid technical knowledge and structured your answers well. "+
			"Keep up the great work!", avg)
	case avg >= 3:
		return fmt.Sprintf("Good performance with an average score of %.1f/5. "+
			"You showed adequate skills across all areas with room for improvement. "+
			"Focus on the areas listed above to strengthen your interviews.", avg)
	default:
		return fmt.Sprintf("Your performance shows potential with an average score of %.1f/5. "+
			"Several areas need improvement. Review the feedback carefully "+
			"and practice the specific points mentioned.", avg)
	}
}
