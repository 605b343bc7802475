package assistant

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound means the remote thread id has no local record; the
	// orchestrator never operates on unregistered threads.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAssistantNotConfigured means no assistant id is registered for the
	// resolved category.
	ErrAssistantNotConfigured = errors.New("assistant not configured")

	// ErrMissingThreadID means a greeting was requested without a target
	// thread; greetings are never auto-created.
	ErrMissingThreadID = errors.New("no thread ID provided for initial message")
)

// TimeoutError reports that a run did not complete within the polling budget.
// The turn is safe to retry: the next turn's preemption step cancels the
// still-running job before starting over.
type TimeoutError struct {
	ThreadID string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run did not complete after %d attempts on thread %s", e.Attempts, e.ThreadID)
}

// IsTimeout reports whether err is a polling-budget timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
