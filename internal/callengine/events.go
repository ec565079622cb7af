// Package callengine defines the event contract of the external voice-call
// engine. The engine delivers an ordered stream of events per session; the
// orchestrator consumes them and never talks back to the engine.
package callengine

type EventType string

const (
	EventCallStarted   EventType = "call-started"
	EventSpeechStarted EventType = "speech-started"
	EventSpeechEnded   EventType = "speech-ended"
	EventTranscript    EventType = "transcript-turn"
	EventCallEnded     EventType = "call-ended"
	EventError         EventType = "error"
)

const (
	SpeakerAssistant = "assistant"
	SpeakerCandidate = "user"
)

// Event is one message on a session's event stream. CallID may be surfaced
// on any event kind; transcript fields are set on transcript-turn only.
type Event struct {
	Type    EventType `json:"type"`
	CallID  string    `json:"call_id,omitempty"`
	Speaker string    `json:"speaker,omitempty"`
	Text    string    `json:"text,omitempty"`
	IsFinal bool      `json:"is_final,omitempty"`
	Message string    `json:"message,omitempty"`
}

func (t EventType) Known() bool {
	switch t {
	case EventCallStarted, EventSpeechStarted, EventSpeechEnded,
		EventTranscript, EventCallEnded, EventError:
		return true
	}
	return false
}
