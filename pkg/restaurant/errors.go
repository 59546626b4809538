package restaurant

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for recovery logic.
type ErrorClass string

const (
	// ErrorClassTransient indicates a recoverable local failure.
	// Examples: a burned cooking step, an interrupted timed task.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent indicates a non-recoverable error.
	// Examples: unknown dish names, malformed message payloads.
	ErrorClassPermanent ErrorClass = "permanent"
)

// KitchenError represents a classified error with context.
type KitchenError struct {
	// Class is the error classification for recovery logic.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Dish is the dish being prepared when the error occurred, if applicable.
	Dish string `json:"dish,omitempty"`

	// Ingredient is the ingredient being processed, if applicable.
	Ingredient string `json:"ingredient,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *KitchenError) Error() string {
	if e.Dish != "" && e.Ingredient != "" {
		return fmt.Sprintf("[%s] %s (dish=%s, ingredient=%s)%s",
			e.Class, e.Message, e.Dish, e.Ingredient, e.unwrapSuffix())
	}
	if e.Dish != "" {
		return fmt.Sprintf("[%s] %s (dish=%s)%s", e.Class, e.Message, e.Dish, e.unwrapSuffix())
	}
	return fmt.Sprintf("[%s] %s%s", e.Class, e.Message, e.unwrapSuffix())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *KitchenError) Unwrap() error {
	return e.Err
}

func (e *KitchenError) unwrapSuffix() string {
	if e.Err != nil {
		return ": " + e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *KitchenError) Is(target error) bool {
	t, ok := target.(*KitchenError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewTransientError creates a new transient error.
func NewTransientError(message string, err error) *KitchenError {
	return &KitchenError{
		Class:   ErrorClassTransient,
		Message: message,
		Err:     err,
	}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *KitchenError {
	return &KitchenError{
		Class:   ErrorClassPermanent,
		Message: message,
		Err:     err,
	}
}

// WithDish adds dish context to an error.
func (e *KitchenError) WithDish(dish string) *KitchenError {
	e.Dish = dish
	return e
}

// WithIngredient adds ingredient context to an error.
func (e *KitchenError) WithIngredient(ingredient string) *KitchenError {
	e.Ingredient = ingredient
	return e
}

// WithOperation adds operation context to an error.
func (e *KitchenError) WithOperation(operation string) *KitchenError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *KitchenError) WithCode(code string) *KitchenError {
	e.Code = code
	return e
}

// IsTransient returns true if the error is classified as transient.
func IsTransient(err error) bool {
	var e *KitchenError
	if errors.As(err, &e) {
		return e.Class == ErrorClassTransient
	}
	return false
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	var e *KitchenError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// IsInterrupted returns true if the error marks a cancelled timed task.
func IsInterrupted(err error) bool {
	var e *KitchenError
	if errors.As(err, &e) {
		return e.Code == ErrCodeInterrupted
	}
	return false
}

// Common error codes.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInterrupted      = "INTERRUPTED"
	ErrCodeMalformedMessage = "MALFORMED_MESSAGE"
	ErrCodeBurned           = "BURNED"
	ErrCodeNoCleanPlates    = "NO_CLEAN_PLATES"
)

// errClass returns the error class string for metrics, or "unknown" for
// unclassified errors.
func errClass(err error) string {
	var e *KitchenError
	if errors.As(err, &e) {
		return string(e.Class)
	}
	return "unknown"
}

// errCode returns the error code for metrics, or "UNCLASSIFIED".
func errCode(err error) string {
	var e *KitchenError
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "UNCLASSIFIED"
}
