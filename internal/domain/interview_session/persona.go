package interviewsession

// Persona is the communication style detected from the latest answer.
type Persona string

const (
	PersonaNormal    Persona = "normal"
	PersonaConfused  Persona = "confused"
	PersonaEfficient Persona = "efficient"
	PersonaChatty    Persona = "chatty"
	PersonaEdgeCase  Persona = "edge_case"
)

// Mode is how the candidate talks to the interviewer. The core treats it as
// opaque; speech handling lives outside this module.
type Mode string

const (
	ModeChat  Mode = "chat"
	ModeVoice Mode = "voice"
)

// ParseMode validates a raw mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeChat, ModeVoice:
		return Mode(s), true
	default:
		return "", false
	}
}
