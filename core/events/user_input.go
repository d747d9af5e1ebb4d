package events

const (
	// KindListeningStarted identifies activation of a one-shot recognition session.
	KindListeningStarted Kind = "user_input.listening_started"
	// KindTranscriptFinal identifies the terminal transcript for an utterance.
	KindTranscriptFinal Kind = "user_input.transcript_final"
	// KindListeningEnded identifies resolution of the recognition session.
	KindListeningEnded Kind = "user_input.listening_ended"
)

// ListeningStarted marks the activation of a recognition session.
type ListeningStarted struct{ Base }

// NewListeningStarted creates a listening started event.
func NewListeningStarted() ListeningStarted {
	return ListeningStarted{Base: NewBase(KindListeningStarted)}
}

// TranscriptFinal carries the terminal transcript for the utterance.
type TranscriptFinal struct {
	Base
	Transcript string
}

func (t TranscriptFinal) String() string { return t.Transcript }

// NewTranscriptFinal creates a transcript final event.
func NewTranscriptFinal(transcript string) TranscriptFinal {
	return TranscriptFinal{Base: NewBase(KindTranscriptFinal), Transcript: transcript}
}

// ListeningEnded marks the resolution of the recognition session.
// Recognized is false when the session ended without a transcript.
type ListeningEnded struct {
	Base
	Recognized bool
}

// NewListeningEnded creates a listening ended event.
func NewListeningEnded(recognized bool) ListeningEnded {
	return ListeningEnded{Base: NewBase(KindListeningEnded), Recognized: recognized}
}
