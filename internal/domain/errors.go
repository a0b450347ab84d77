package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"

	// Library errors
	ErrDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrNoQuestions      ErrorCode = "NO_QUESTIONS_PARSED"

	// Session errors
	ErrSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrNothingToPlay   ErrorCode = "NOTHING_TO_PLAY"
	ErrInvalidLabel    ErrorCode = "INVALID_LABEL"
	ErrAdvanceNotReady ErrorCode = "ADVANCE_NOT_READY"
	ErrAnswerNotOpen   ErrorCode = "ANSWER_NOT_OPEN"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors

func NewValidationError(message string) *DomainError {
	return NewError(ErrValidation, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewDocumentNotFoundError(name string, err error) *DomainError {
	return NewError(ErrDocumentNotFound, fmt.Sprintf("Document not found: %s", name), err)
}

// NewNoQuestionsError reports that a document yielded zero valid question
// blocks. The preview of the raw text travels with the error so callers can
// show a diagnostic without re-fetching.
func NewNoQuestionsError(name, preview string) *DomainError {
	msg := fmt.Sprintf("No questions parsed from %s", name)
	if preview != "" {
		msg = fmt.Sprintf("%s (text begins: %q)", msg, preview)
	}
	return NewError(ErrNoQuestions, msg, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(ErrSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewNothingToPlayError(message string) *DomainError {
	return NewError(ErrNothingToPlay, message, nil)
}

func NewInvalidLabelError(label string) *DomainError {
	return NewError(ErrInvalidLabel, fmt.Sprintf("Invalid answer label: %q", label), nil)
}

func NewAdvanceNotReadyError() *DomainError {
	return NewError(ErrAdvanceNotReady, "Cannot advance until the current question is answered correctly", nil)
}

func NewAnswerNotOpenError() *DomainError {
	return NewError(ErrAnswerNotOpen, "No question is open for answering", nil)
}
