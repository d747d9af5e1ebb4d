// Package recognition defines the speech-recognition collaborator contract
// used by the dialogue core.
//
// A recognizer runs one-shot, non-interim sessions: each activation resolves
// with exactly one terminal outcome: a final transcript, an error, or an
// empty end when nothing was recognized.
package recognition

import "context"

// Recognizer activates single-utterance recognition sessions.
type Recognizer interface {
	// Start activates one session. Exactly one of the transcript, error or
	// empty callbacks configured via options fires afterwards, regardless
	// of whether Stop is called.
	Start(ctx context.Context, opts ...Option) (Session, error)
}

// Session is one in-flight recognition activation.
type Session interface {
	// Stop requests early termination. It is idempotent and best effort;
	// the terminal outcome is still delivered by the engine.
	Stop()
}

type Options struct {
	// TranscriptCallback delivers the final transcript for the utterance.
	TranscriptCallback func(transcript string)
	// ErrorCallback reports a session that failed before producing a
	// transcript.
	ErrorCallback func(err error)
	// EmptyCallback reports a session that ended without recognizing
	// anything (silence or timeout).
	EmptyCallback func()

	Locale string
}

type Option func(*Options)

func WithTranscriptCallback(callback func(transcript string)) Option {
	return func(o *Options) { o.TranscriptCallback = callback }
}

func WithErrorCallback(callback func(err error)) Option {
	return func(o *Options) { o.ErrorCallback = callback }
}

func WithEmptyCallback(callback func()) Option {
	return func(o *Options) { o.EmptyCallback = callback }
}

func WithLocale(locale string) Option {
	return func(o *Options) { o.Locale = locale }
}
