package services

import "errors"

// ValidationError marks failures caused by bad input (unknown status,
// quantity below 1, inactive or unknown dish, duplicate dish name). The
// controllers map it to HTTP 400, distinct from not-found.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDishNotFound  = errors.New("dish not found")
)
