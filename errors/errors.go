package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified streamkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if building a fresh pipeline may succeed.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, which makes
// the package sentinels usable with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrExhaustedPipeline = New(ErrCodeExhaustedPipeline, "pipeline exhausted")
	ErrCancelled         = New(ErrCodeCancelled, "pipeline cancelled")
	ErrStageFailed       = New(ErrCodeStageFailed, "stage failed")
	ErrDuplicateKey      = New(ErrCodeDuplicateKey, "duplicate key")
	ErrEmptyReduction    = New(ErrCodeEmptyReduction, "empty reduction")
	ErrInvalidRange      = New(ErrCodeInvalidRange, "invalid range")
	ErrInvalidConfig     = New(ErrCodeInvalidConfig, "invalid config")
)

// --- Constructors ---

// ExhaustedPipeline creates a new AppError for a terminal or chaining call on
// a pipeline that has already been operated upon or closed.
func ExhaustedPipeline(chainID string) *AppError {
	return &AppError{
		Code: ErrCodeExhaustedPipeline, Message: "pipeline has already been operated upon or closed",
		Details: map[string]any{"chain": chainID},
	}
}

// Cancelled creates a new AppError for an evaluation stopped by its context.
func Cancelled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: "pipeline evaluation cancelled",
		Retryable: true, Cause: cause,
	}
}

// StageFailed creates a new AppError for an error returned by a stage function.
func StageFailed(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStageFailed, Message: fmt.Sprintf("stage %s failed", stage),
		Details: map[string]any{"stage": stage}, Cause: cause,
	}
}

// DuplicateKey creates a new AppError for a key collision without a merge function.
func DuplicateKey(key, existing, incoming any) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateKey,
		Message: fmt.Sprintf("duplicate key %v (attempted merging values %v and %v)",
			key, existing, incoming),
		Details: map[string]any{"key": key},
	}
}

// EmptyReduction creates a new AppError for an identity-less reduction that saw no elements.
func EmptyReduction(op string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyReduction, Message: fmt.Sprintf("%s on empty input has no result", op),
		Details: map[string]any{"operation": op},
	}
}

// InvalidRange creates a new AppError for malformed range bounds or step.
func InvalidRange(lo, hi, step any, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidRange, Message: fmt.Sprintf("invalid range [%v, %v] step %v: %s", lo, hi, step, reason),
		Details: map[string]any{"lo": lo, "hi": hi, "step": step},
	}
}

// InvalidConfig creates a new AppError for a configuration value that failed validation.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid config: %s", reason),
		Details: details,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Code returns the code of the first AppError in err's chain, or "" if none.
func Code(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err's chain contains an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return Code(err) == code
}
