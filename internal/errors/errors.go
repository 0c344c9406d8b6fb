package errors

import "fmt"

// ErrorCode represents a Storyteller error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrAlreadyCollected ErrorCode = "ALREADY_COLLECTED" // 409
	ErrConflict         ErrorCode = "CONFLICT"          // 409
	ErrCaptionTooLarge  ErrorCode = "CAPTION_TOO_LARGE" // 413
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// StoryError represents a structured error with code, status, and details.
type StoryError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StoryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StoryError {
	return &StoryError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(identifier string) *StoryError {
	return &StoryError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *StoryError {
	return &StoryError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAlreadyCollected creates a 409 error for a duplicate stamp collection.
func NewAlreadyCollected(trip, placeID string) *StoryError {
	return &StoryError{
		Code:    ErrAlreadyCollected,
		Status:  409,
		Message: fmt.Sprintf("stamp for place %q already collected in trip %q", placeID, trip),
		Details: map[string]any{"trip": trip, "place_id": placeID},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *StoryError {
	return &StoryError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCaptionTooLarge creates a 413 error when a caption exceeds the size limit.
func NewCaptionTooLarge(max, actual int) *StoryError {
	return &StoryError{
		Code:    ErrCaptionTooLarge,
		Status:  413,
		Message: fmt.Sprintf("caption exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCancelled creates a 499 error for a context-cancelled operation.
func NewCancelled(operation string) *StoryError {
	return &StoryError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StoryError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StoryError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StoryError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StoryError); ok {
		return sErr.Code == code
	}
	return false
}
