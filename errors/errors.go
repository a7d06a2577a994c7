package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type returned by the container.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Kind is the phase the error belongs to.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message.
	Message string `json:"message"`
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

// Is reports whether target is an AppError with the same code, so sentinel
// values can be matched with errors.Is regardless of message or details.
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

// New creates a new AppError, deriving its kind from the code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindOf(code),
		Message: message,
	}
}

// --- Constructors ---

// AmbiguousConstructor reports a type-based registration that did not receive exactly one constructor.
func AmbiguousConstructor(impl string, count int) *AppError {
	return New(ErrCodeAmbiguousConstructor, fmt.Sprintf(
		"type '%s' should have a single constructor, got %d. Register it with a factory function to avoid ambiguity.",
		impl, count)).
		WithDetails(map[string]any{"type": impl, "constructors": count})
}

// InvalidConstructor reports a constructor whose signature cannot be used for injection.
func InvalidConstructor(impl, reason string) *AppError {
	return New(ErrCodeInvalidConstructor, fmt.Sprintf("invalid constructor for '%s': %s", impl, reason)).
		WithDetail("type", impl)
}

// NotRegistered reports a key with no registration in the whole container chain.
func NotRegistered(key string) *AppError {
	return New(ErrCodeNotRegistered, fmt.Sprintf("type is not registered: %s", key)).
		WithDetail("key", key)
}

// TypeMismatch reports a resolved value that cannot be converted to the requested type.
func TypeMismatch(key string, got, want string) *AppError {
	return New(ErrCodeTypeMismatch, fmt.Sprintf("component %s is %s, expected %s", key, got, want)).
		WithDetails(map[string]any{"key": key, "got": got, "want": want})
}

// UnknownLifetime reports a registration with a lifetime outside the defined policies.
// An empty key reports a lifetime name that failed to parse.
func UnknownLifetime(key string, lifetime any) *AppError {
	msg := fmt.Sprintf("unknown lifetime %v", lifetime)
	if key != "" {
		msg += " for " + key
	}
	return New(ErrCodeUnknownLifetime, msg).
		WithDetails(map[string]any{"key": key, "lifetime": fmt.Sprint(lifetime)})
}

// InvalidConfig reports a configuration struct that failed validation.
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsConfiguration reports whether err is a registration-time configuration error.
func IsConfiguration(err error) bool { return kindIs(err, KindConfiguration) }

// IsResolution reports whether err is a resolution error.
func IsResolution(err error) bool { return kindIs(err, KindResolution) }

// IsInternal reports whether err is an internal invariant violation.
func IsInternal(err error) bool { return kindIs(err, KindInternal) }

func kindIs(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
