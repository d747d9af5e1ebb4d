package dialogue

import (
	"context"
	"sync"

	"github.com/lingora/lingora-core/core/recognition"
)

// listenController owns a single one-shot recognition session at a time.
// Every session ends in exactly one of three outcomes: a transcript, an
// error, or nothing recognized. The controller clears its own state before
// delegating the outcome so the callbacks observe an idle controller.
type listenController struct {
	recognizer recognition.Recognizer
	locale     string

	mu        sync.Mutex
	session   recognition.Session
	listening bool
}

func newListenController(recognizer recognition.Recognizer, locale string) *listenController {
	return &listenController{recognizer: recognizer, locale: locale}
}

// Start opens a recognition session. Exactly one of the callbacks fires
// when the session ends on its own; Stop'ping the session forces the
// nothing-recognized path unless a transcript already landed.
func (l *listenController) Start(
	ctx context.Context,
	onTranscript func(transcript string),
	onError func(err error),
	onEmpty func(),
) error {
	l.mu.Lock()
	if l.listening {
		l.mu.Unlock()
		return ErrAlreadyListening
	}
	l.listening = true
	l.mu.Unlock()

	finish := func(outcome func()) {
		l.mu.Lock()
		l.session = nil
		l.listening = false
		l.mu.Unlock()
		outcome()
	}

	session, err := l.recognizer.Start(ctx,
		recognition.WithLocale(l.locale),
		recognition.WithTranscriptCallback(func(transcript string) {
			finish(func() { onTranscript(transcript) })
		}),
		recognition.WithErrorCallback(func(err error) {
			finish(func() { onError(err) })
		}),
		recognition.WithEmptyCallback(func() {
			finish(onEmpty)
		}),
	)
	if err != nil {
		l.mu.Lock()
		l.listening = false
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.session = session
	l.mu.Unlock()
	return nil
}

// Stop ends the active session, if any. Safe to call when idle.
func (l *listenController) Stop() {
	l.mu.Lock()
	session := l.session
	l.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

func (l *listenController) IsListening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}
