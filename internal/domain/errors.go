package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID is unknown to the store.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrHintNotAvailable indicates the question exists but carries no hint.
	ErrHintNotAvailable = errors.New("hint not available")
	// ErrRecordNotFound is the generic miss returned by record stores.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUnauthorized is returned when bearer credentials are missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidSubmission is returned when a submission is missing required fields.
	ErrInvalidSubmission = errors.New("invalid submission")
)
