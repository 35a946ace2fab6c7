package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip + 1)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(1),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(1),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the type of the first AppError in err's chain.
// Deadline errors are reported as timeouts, anything else unknown as internal.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Type == ErrorTypeStorage && errors.Is(appErr.Internal, context.DeadlineExceeded) {
			return ErrorTypeTimeout
		}
		return appErr.Type
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	return ErrorTypeInternal
}

// IsType reports whether err classifies as t
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// Handler provides error handling strategies
// Handler logs errors with a severity picked by their type
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error with a severity picked by its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch TypeOf(err) {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Recoverable error", appErr.LogFields()...)
	case ErrorTypeStorage, ErrorTypeTimeout, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", appErr.LogFields()...)
	}
}

// Predefined errors, usable as errors.Is targets
var (
	ErrInvalidInput     = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrEmptySession     = New(ErrorTypeValidation, "EMPTY_SESSION", "Session has no exercises")
	ErrSessionOpen      = New(ErrorTypeConflict, "SESSION_OPEN", "An open session already exists")
	ErrDuplicateEntry   = New(ErrorTypeConflict, "DUPLICATE_ENTRY", "Entry already exists")
	ErrSessionNotFound  = New(ErrorTypeNotFound, "SESSION_NOT_FOUND", "Open session not found")
	ErrExerciseNotFound = New(ErrorTypeNotFound, "EXERCISE_NOT_FOUND", "Exercise not found")
	ErrEntryNotFound    = New(ErrorTypeNotFound, "ENTRY_NOT_FOUND", "Catalog entry not found")
	ErrDefaultEntry     = New(ErrorTypeNotFound, "DEFAULT_ENTRY", "Built-in catalog entries cannot be removed")
	ErrStorage          = New(ErrorTypeStorage, "STORAGE", "Storage operation failed")
	ErrTimeout          = New(ErrorTypeTimeout, "TIMEOUT", "Operation timed out")
)

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewConflictError(code, message string) *AppError {
	return New(ErrorTypeConflict, code, message)
}

func NewNotFoundError(code, message string) *AppError {
	return New(ErrorTypeNotFound, code, message)
}

func NewStorageError(err error, operation string) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE", fmt.Sprintf("failed to %s", operation)).
		WithContext("operation", operation)
}

func NewTimeoutError(operation string) *AppError {
	return New(ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation)).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
