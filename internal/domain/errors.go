package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidTransition is returned when an operation is invoked outside its
	// valid phase. State is left untouched.
	ErrInvalidTransition = errors.New("invalid quiz transition")
	// ErrInvalidOption is returned when an answer value matches none of the
	// current question's options.
	ErrInvalidOption = errors.New("invalid option value")
	// ErrInvalidSegment is returned for an unknown segment selection.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrEmptyEmail is returned when email capture is submitted without an email.
	ErrEmptyEmail = errors.New("email must not be empty")
	// ErrBankNotFound indicates the question bank for a segment could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrLeadNotFound indicates a lead ID does not exist in the store.
	ErrLeadNotFound = errors.New("lead not found")
)
