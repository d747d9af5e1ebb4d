package dialogue

import "errors"

var (
	// ErrOperationUnavailable rejects a trigger whose precondition is not
	// met. Callers are expected to disable the corresponding control.
	ErrOperationUnavailable = errors.New("operation not available right now")

	// ErrEmptySubmission rejects a submission with no content.
	ErrEmptySubmission = errors.New("nothing to send")

	// ErrNoUserTurn rejects pronunciation tips before the user has said
	// anything.
	ErrNoUserTurn = errors.New("say something first to get pronunciation tips")

	// ErrAlreadyListening rejects a listen request while a recognition
	// session is in flight.
	ErrAlreadyListening = errors.New("already listening")
)

// AdvisoryError wraps a recoverable condition with the user-visible string
// surfaced for it. Advisories never change conversational state.
type AdvisoryError struct {
	Message string
	Err     error
}

func (e *AdvisoryError) Error() string {
	return e.Message
}

func (e *AdvisoryError) Unwrap() error {
	return e.Err
}

func newAdvisory(message string, err error) *AdvisoryError {
	return &AdvisoryError{Message: message, Err: err}
}
