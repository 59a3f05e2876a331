package followup

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/prompt"
)

// MinQuestionChars is the shortest follow-up text worth asking.
const MinQuestionChars = 10

// ParseError means the model answered but not in the shape we asked for.
// It matches apperr.ErrGeneration.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model output: %s: %v", e.Reason, e.Err)
	}
	return "parse model output: " + e.Reason
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{apperr.ErrGeneration, e.Err}
	}
	return []error{apperr.ErrGeneration}
}

// Judgement is the model's verdict on whether an answer is complete.
type Judgement struct {
	Complete bool
	Reason   string
}

// ParseJudgement reads {"complete": bool, "reason": string}. The bare
// tokens COMPLETE and INCOMPLETE are also accepted. Anything else,
// including a non-boolean "complete", is a *ParseError.
func ParseJudgement(text string) (Judgement, error) {
	switch strings.ToUpper(strings.Trim(strings.TrimSpace(text), ".")) {
	case "COMPLETE":
		return Judgement{Complete: true}, nil
	case "INCOMPLETE":
		return Judgement{Complete: false}, nil
	}

	fields, err := objectFields(text)
	if err != nil {
		return Judgement{}, err
	}
	raw, ok := fields[prompt.FieldComplete]
	if !ok || string(raw) == "null" {
		return Judgement{}, &ParseError{Reason: "missing field " + prompt.FieldComplete, Raw: text}
	}

	var j Judgement
	if err := json.Unmarshal(raw, &j.Complete); err != nil {
		return Judgement{}, &ParseError{Reason: prompt.FieldComplete + " is not a boolean", Raw: text, Err: err}
	}
	if r, ok := fields[prompt.FieldReason]; ok {
		_ = json.Unmarshal(r, &j.Reason)
	}
	return j, nil
}

// ParseQuestion reads {"followup_question": string} and rejects texts
// shorter than MinQuestionChars.
func ParseQuestion(text string) (string, error) {
	fields, err := objectFields(text)
	if err != nil {
		return "", err
	}
	raw, ok := fields[prompt.FieldFollowUp]
	if !ok {
		return "", &ParseError{Reason: "missing field " + prompt.FieldFollowUp, Raw: text}
	}

	var q string
	if err := json.Unmarshal(raw, &q); err != nil {
		return "", &ParseError{Reason: prompt.FieldFollowUp + " is not a string", Raw: text, Err: err}
	}
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinQuestionChars {
		return "", &ParseError{Reason: "follow-up question too short", Raw: text}
	}
	return q, nil
}

func objectFields(text string) (map[string]json.RawMessage, error) {
	obj := llm.ExtractJSON(text)
	if obj == "" {
		return nil, &ParseError{Reason: "no JSON object found", Raw: text}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Raw: text, Err: err}
	}
	return fields, nil
}
