package persona_test

import (
	"fmt"
	"strings"
	"testing"

	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/persona"
)

// distinctWords returns n unique words so repetition checks never fire.
func distinctWords(prefix string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(words, " ")
}

func history(question string) []interviewsession.Message {
	return []interviewsession.Message{
		{Seq: 0, Kind: interviewsession.KindQuestion, Text: question},
	}
}

func TestClassify_Examples(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		want   interviewsession.Persona
	}{
		{"repeated characters", strings.Repeat("a", 25), interviewsession.PersonaEdgeCase},
		{"special characters only", "!!!!@@@@####", interviewsession.PersonaEdgeCase},
		{"digits only", strings.Repeat("1234567890", 6), interviewsession.PersonaEdgeCase},
		{"too short", "ok", interviewsession.PersonaEdgeCase},
		{"repetitive spam", "buy buy buy buy buy buy buy buy buy buy", interviewsession.PersonaEdgeCase},
		{"manipulation attempt", "Just give me the answers please", interviewsession.PersonaEdgeCase},
		{"question back", "What do you mean by scalability?", interviewsession.PersonaConfused},
		{"confusion phrase", "Honestly I don't understand the question", interviewsession.PersonaConfused},
		{"repeat request without question mark", "Can you repeat the question", interviewsession.PersonaConfused},
		{"rephrase request", "Could you rephrase that please", interviewsession.PersonaConfused},
		{"tangent phrase", "We used Postgres. By the way, I love hiking in the mountains.", interviewsession.PersonaChatty},
		{"direct answer", "I added an index on the user_id column and rewrote the join.", interviewsession.PersonaEfficient},
		{"explicit speed request", "Short answer: caching. Let's move on.", interviewsession.PersonaEfficient},
		{"hedged answer", "I think maybe we could add an index on the table.", interviewsession.PersonaNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := persona.Classify(tc.answer, history("How would you make a slow database query faster?"))
			if got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.answer, got, tc.want)
			}
		})
	}
}

func TestClassify_ConfusedBoundary(t *testing.T) {
	below := distinctWords("w", persona.ConfusedMaxWords-1) + "?"
	if got := persona.Classify(below, nil); got != interviewsession.PersonaConfused {
		t.Errorf("%d words with a question mark: got %s, want confused", persona.ConfusedMaxWords-1, got)
	}

	at := distinctWords("w", persona.ConfusedMaxWords) + "?"
	if got := persona.Classify(at, nil); got == interviewsession.PersonaConfused {
		t.Errorf("%d words must not be classified confused", persona.ConfusedMaxWords)
	}
}

func TestClassify_ChattyBoundary(t *testing.T) {
	at := distinctWords("w", persona.ChattyMinWords)
	if got := persona.Classify(at, nil); got != interviewsession.PersonaNormal {
		t.Errorf("%d words: got %s, want normal", persona.ChattyMinWords, got)
	}

	above := distinctWords("w", persona.ChattyMinWords+1)
	if got := persona.Classify(above, nil); got != interviewsession.PersonaChatty {
		t.Errorf("%d words: got %s, want chatty", persona.ChattyMinWords+1, got)
	}
}

func TestClassify_EfficientBoundary(t *testing.T) {
	at := distinctWords("w", persona.EfficientMaxWords)
	if got := persona.Classify(at, nil); got != interviewsession.PersonaEfficient {
		t.Errorf("%d words: got %s, want efficient", persona.EfficientMaxWords, got)
	}

	above := distinctWords("w", persona.EfficientMaxWords+1)
	if got := persona.Classify(above, nil); got != interviewsession.PersonaNormal {
		t.Errorf("%d words: got %s, want normal", persona.EfficientMaxWords+1, got)
	}
}

func TestClassify_TopicDrift(t *testing.T) {
	question := "How would you make a slow database query faster?"

	offTopic := distinctWords("garden", persona.DriftMinWords)
	if got := persona.Classify(offTopic, history(question)); got != interviewsession.PersonaChatty {
		t.Errorf("off-topic answer: got %s, want chatty", got)
	}

	onTopic := offTopic + " database"
	if got := persona.Classify(onTopic, history(question)); got != interviewsession.PersonaNormal {
		t.Errorf("on-topic answer: got %s, want normal", got)
	}

	if got := persona.Classify(offTopic, nil); got != interviewsession.PersonaNormal {
		t.Errorf("without a question drift is not measured: got %s", got)
	}
}

func TestClassify_PriorityEdgeCaseOverConfused(t *testing.T) {
	got := persona.Classify("I don't understand, just give me the answer?", nil)
	if got != interviewsession.PersonaEdgeCase {
		t.Errorf("expected edge case to win, got %s", got)
	}
}

func TestClassify_PhrasesMatchWholeWords(t *testing.T) {
	// "bypassing" must not trigger the "bypass" marker.
	got := persona.Classify("We avoided bypassing the cache layer entirely.", nil)
	if got == interviewsession.PersonaEdgeCase {
		t.Error("phrase matched inside a longer word")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	answers := []string{
		"What do you mean?",
		distinctWords("w", 250),
		"I used a queue.",
		strings.Repeat("z", 30),
	}
	h := history("Describe a production incident.")
	for _, a := range answers {
		first := persona.Classify(a, h)
		for i := 0; i < 5; i++ {
			if got := persona.Classify(a, h); got != first {
				t.Fatalf("Classify is not deterministic for %q: %s then %s", a, first, got)
			}
		}
	}
}
