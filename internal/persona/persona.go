// Package persona classifies a candidate's communication style from a single
// answer. Classification is pure and deterministic.
package persona

import (
	"regexp"
	"strings"
	"unicode"

	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
)

// Word-count and pattern thresholds.
const (
	ConfusedMaxWords  = 30  // confused answers are strictly shorter than this
	ChattyMinWords    = 200 // chatty answers are strictly longer than this
	EfficientMaxWords = 50  // efficient answers have at most this many words
	DriftMinWords     = 80  // shorter answers are never checked for topic drift

	MinAnswerChars     = 3  // anything shorter is treated as noise
	RepeatedCharRun    = 21 // a run this long of one character is spam
	SpamMinWords       = 6  // repetition is only judged above this many words
	SpamUniqueRatio    = 0.3
	MinContentWordSize = 4
)

var (
	specialCharsOnly = regexp.MustCompile(`^[^a-zA-Z0-9\s]{10,}$`)
	digitsOnly       = regexp.MustCompile(`^[0-9]{50,}$`)
)

// Phrase lists, matched on whole words against the lowercased answer.
var (
	EdgeCasePhrases = []string{
		"cheat", "skip all", "give me answers", "give me the answer",
		"just give me", "what's the password", "bypass",
		"tell me the questions", "show me feedback now",
		"ignore previous instructions", "ignore all previous",
	}

	ConfusionPhrases = []string{
		"what do you mean", "i don't understand", "i do not understand",
		"can you explain", "i'm not sure", "i don't know", "could you clarify",
		"what does that mean", "i'm confused", "not sure what you mean",
		"repeat the question", "rephrase", "what was the question",
	}

	TangentPhrases = []string{
		"by the way", "speaking of", "that reminds me", "this reminds me",
		"on a different note", "on another note", "another thing",
		"let me tell you about", "i remember when", "one time",
	}

	EfficiencyPhrases = []string{
		"let's move on", "next question", "keep it brief", "short answer",
		"be direct", "get to the point",
	}

	HedgePhrases = []string{
		"i think", "i guess", "i believe", "maybe", "probably", "perhaps",
		"sort of", "kind of", "not sure", "um", "uh", "you know",
	}
)

var stopWords = map[string]bool{
	"about": true, "would": true, "could": true, "should": true, "there": true,
	"their": true, "these": true, "those": true, "which": true, "where": true,
	"when": true, "what": true, "with": true, "your": true, "have": true,
	"from": true, "that": true, "this": true, "they": true, "them": true,
	"were": true, "been": true, "some": true, "into": true, "then": true,
	"than": true, "also": true, "just": true, "like": true, "will": true,
	"tell": true, "describe": true, "explain": true, "walk": true, "through": true,
	"time": true, "how": true, "does": true, "make": true,
}

// Classify returns exactly one persona, checking in priority order
// EdgeCase, Confused, Chatty, Efficient, Normal. history is the transcript
// so far; its latest question or follow-up is the topic drift is measured
// against.
func Classify(answer string, history []interviewsession.Message) interviewsession.Persona {
	trimmed := strings.TrimSpace(answer)
	words := strings.Fields(trimmed)
	normalized := normalize(trimmed)

	switch {
	case IsEdgeCase(trimmed, normalized, words):
		return interviewsession.PersonaEdgeCase
	case IsConfused(trimmed, normalized, len(words)):
		return interviewsession.PersonaConfused
	case IsChatty(normalized, len(words), currentPrompt(history)):
		return interviewsession.PersonaChatty
	case IsEfficient(trimmed, normalized, len(words)):
		return interviewsession.PersonaEfficient
	default:
		return interviewsession.PersonaNormal
	}
}

// IsEdgeCase detects empty, spam, or out-of-scope input.
func IsEdgeCase(trimmed, normalized string, words []string) bool {
	if len([]rune(trimmed)) < MinAnswerChars {
		return true
	}
	if specialCharsOnly.MatchString(trimmed) || digitsOnly.MatchString(trimmed) {
		return true
	}
	if longestRun(trimmed) >= RepeatedCharRun {
		return true
	}
	if len(words) >= SpamMinWords {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[strings.ToLower(w)] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) < SpamUniqueRatio {
			return true
		}
	}
	return containsAny(normalized, EdgeCasePhrases)
}

// IsConfused is true for short answers that ask something back or say
// they are lost.
func IsConfused(trimmed, normalized string, wordCount int) bool {
	if wordCount >= ConfusedMaxWords {
		return false
	}
	return strings.Contains(trimmed, "?") || containsAny(normalized, ConfusionPhrases)
}

// IsChatty is true for very long answers or answers that wander away from
// the current question.
func IsChatty(normalized string, wordCount int, question string) bool {
	if wordCount > ChattyMinWords {
		return true
	}
	if containsAny(normalized, TangentPhrases) {
		return true
	}
	if wordCount < DriftMinWords || question == "" {
		return false
	}
	topic := contentWords(normalize(question))
	if len(topic) == 0 {
		return false
	}
	for w := range contentWords(normalized) {
		if topic[w] {
			return false
		}
	}
	return true
}

// IsEfficient is true for short, declarative, unhedged answers, or when the
// candidate explicitly asks to speed up.
func IsEfficient(trimmed, normalized string, wordCount int) bool {
	if containsAny(normalized, EfficiencyPhrases) {
		return true
	}
	if wordCount > EfficientMaxWords || strings.Contains(trimmed, "?") {
		return false
	}
	return !containsAny(normalized, HedgePhrases)
}

func currentPrompt(history []interviewsession.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind.IsPrompt() {
			return history[i].Text
		}
	}
	return ""
}

// normalize lowercases s and collapses everything except letters, digits
// and apostrophes into single spaces, padded on both ends so phrases can be
// matched on word boundaries.
func normalize(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if r == '’' {
			r = '\''
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

func containsAny(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(normalized, " "+p+" ") {
			return true
		}
	}
	return false
}

// longestRun returns the length of the longest run of one repeated
// non-space character.
func longestRun(s string) int {
	best, run := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev && !unicode.IsSpace(r) {
			run++
		} else {
			run = 1
		}
		prev = r
		if run > best {
			best = run
		}
	}
	return best
}

func contentWords(normalized string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) < MinContentWordSize || stopWords[w] {
			continue
		}
		out[stem(w)] = true
	}
	return out
}

// stem truncates long words so "designing" and "design" match.
func stem(w string) string {
	r := []rune(w)
	if len(r) > 5 {
		return string(r[:5])
	}
	return w
}
