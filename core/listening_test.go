package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lingora/lingora-core/core/recognition"
)

type fakeRecognitionSession struct {
	options recognition.Options

	mu    sync.Mutex
	stops int
}

func (s *fakeRecognitionSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *fakeRecognitionSession) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

type fakeRecognizer struct {
	mu       sync.Mutex
	startErr error
	sessions []*fakeRecognitionSession
}

func (f *fakeRecognizer) Start(_ context.Context, opts ...recognition.Option) (recognition.Session, error) {
	options := recognition.Options{}
	for _, opt := range opts {
		opt(&options)
	}

	if f.startErr != nil {
		return nil, f.startErr
	}

	session := &fakeRecognitionSession{options: options}
	f.mu.Lock()
	f.sessions = append(f.sessions, session)
	f.mu.Unlock()
	return session, nil
}

func (f *fakeRecognizer) lastSession(t *testing.T) *fakeRecognitionSession {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sessions) == 0 {
		t.Fatalf("expected a recognition session to have been started")
	}
	return f.sessions[len(f.sessions)-1]
}

func TestListenControllerDeliversTranscript(t *testing.T) {
	recognizer := &fakeRecognizer{}
	controller := newListenController(recognizer, "en-US")

	var transcripts []string
	err := controller.Start(context.Background(),
		func(transcript string) { transcripts = append(transcripts, transcript) },
		func(err error) { t.Fatalf("unexpected error outcome: %v", err) },
		func() { t.Fatalf("unexpected empty outcome") },
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if !controller.IsListening() {
		t.Fatalf("expected the controller to report listening")
	}

	session := recognizer.lastSession(t)
	if session.options.Locale != "en-US" {
		t.Fatalf("expected the locale to be forwarded, got %q", session.options.Locale)
	}

	session.options.TranscriptCallback("hello there")

	if len(transcripts) != 1 || transcripts[0] != "hello there" {
		t.Fatalf("expected the transcript to be delivered, got %v", transcripts)
	}
	if controller.IsListening() {
		t.Fatalf("expected the controller to be idle when the outcome is delivered")
	}
}

func TestListenControllerClearsStateBeforeOutcome(t *testing.T) {
	recognizer := &fakeRecognizer{}
	controller := newListenController(recognizer, "en-US")

	var idleDuringOutcome bool
	err := controller.Start(context.Background(),
		func(string) { idleDuringOutcome = !controller.IsListening() },
		func(error) {},
		func() {},
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	recognizer.lastSession(t).options.TranscriptCallback("hi")

	if !idleDuringOutcome {
		t.Fatalf("expected the controller to be idle inside the outcome callback")
	}
}

func TestListenControllerRejectsConcurrentSessions(t *testing.T) {
	recognizer := &fakeRecognizer{}
	controller := newListenController(recognizer, "en-US")

	if err := controller.Start(context.Background(), func(string) {}, func(error) {}, func() {}); err != nil {
		t.Fatalf("expected the first start to succeed, got %v", err)
	}

	err := controller.Start(context.Background(), func(string) {}, func(error) {}, func() {})
	if !errors.Is(err, ErrAlreadyListening) {
		t.Fatalf("expected ErrAlreadyListening, got %v", err)
	}
}

func TestListenControllerRecoversFromStartFailure(t *testing.T) {
	recognizer := &fakeRecognizer{startErr: errors.New("no microphone")}
	controller := newListenController(recognizer, "en-US")

	err := controller.Start(context.Background(), func(string) {}, func(error) {}, func() {})
	if err == nil {
		t.Fatalf("expected start to fail")
	}
	if controller.IsListening() {
		t.Fatalf("expected the controller to be idle after a failed start")
	}

	recognizer.startErr = nil
	if err := controller.Start(context.Background(), func(string) {}, func(error) {}, func() {}); err != nil {
		t.Fatalf("expected a later start to succeed, got %v", err)
	}
}

func TestListenControllerStopForwardsToSession(t *testing.T) {
	recognizer := &fakeRecognizer{}
	controller := newListenController(recognizer, "en-US")

	// Stop with no session is a no-op.
	controller.Stop()

	var empties int
	if err := controller.Start(context.Background(), func(string) {}, func(error) {}, func() { empties++ }); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	controller.Stop()
	session := recognizer.lastSession(t)
	if session.stopCount() != 1 {
		t.Fatalf("expected the session to be stopped once, got %d", session.stopCount())
	}

	// The engine still resolves the session after a stop request.
	session.options.EmptyCallback()
	if empties != 1 {
		t.Fatalf("expected the empty outcome to be delivered, got %d", empties)
	}
	if controller.IsListening() {
		t.Fatalf("expected the controller to be idle after resolution")
	}
}

func TestListenControllerErrorOutcome(t *testing.T) {
	recognizer := &fakeRecognizer{}
	controller := newListenController(recognizer, "en-US")

	var causes []error
	if err := controller.Start(context.Background(), func(string) {}, func(err error) { causes = append(causes, err) }, func() {}); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	recognizer.lastSession(t).options.ErrorCallback(errors.New("socket closed"))

	if len(causes) != 1 {
		t.Fatalf("expected one error outcome, got %v", causes)
	}
	if controller.IsListening() {
		t.Fatalf("expected the controller to be idle after an error outcome")
	}
}
