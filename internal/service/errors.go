package service

import "errors"

// Session error kinds. The terminal conditions (expired, limit
// reached, duplicate) are expected ends of an exam, not caller bugs:
// they transition the session to completed and the HTTP layer reports
// them as "exam finished" rather than failures.
var (
	// ErrInvalidTransition means the state machine was called from a
	// state that does not permit the operation (for example starting an
	// already-started exam). Caller bug; not retried.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrSessionExpired means the server-side deadline has passed.
	ErrSessionExpired = errors.New("session deadline has passed")

	// ErrSessionLimitReached means the question limit is exhausted.
	ErrSessionLimitReached = errors.New("session question limit reached")

	// ErrDuplicateAnswer means the candidate already answered this
	// question. A duplicate indicates a client replay or tampering, so
	// it ends the session.
	ErrDuplicateAnswer = errors.New("question already answered")

	// ErrNoQuestionsAvailable means the selector exhausted every
	// difficulty level. The session completes with whatever answers
	// exist.
	ErrNoQuestionsAvailable = errors.New("no questions available at any difficulty")

	// ErrInsufficientCredits means the company has no exam credit left.
	ErrInsufficientCredits = errors.New("company has no exam credits")
)
