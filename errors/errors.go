package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the layered error type shared by the application, component and
// service lifecycles.
type Error struct {
	// Kind is the layer that raised the error.
	Kind Kind `json:"kind"`
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Name is the application, component or service the error refers to.
	Name string `json:"name,omitempty"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation prefixed with the layer.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithName sets the subject name and returns the receiver.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// New creates a new Error of the given kind.
func New(kind Kind, code ErrorCode, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// --- Layer constructors ---

// ApplicationError wraps cause as an application-level failure.
func ApplicationError(code ErrorCode, message string, cause error) *Error {
	return New(KindApplication, code, message).WithCause(cause)
}

// ComponentError wraps cause as a component-level failure.
func ComponentError(code ErrorCode, message string, cause error) *Error {
	return New(KindComponent, code, message).WithCause(cause)
}

// ServiceError wraps cause as a service-level failure.
func ServiceError(code ErrorCode, message string, cause error) *Error {
	return New(KindService, code, message).WithCause(cause)
}

// NotRegistered creates the error returned when resolving an unknown service.
func NotRegistered(name string) *Error {
	return &Error{
		Kind:    KindService,
		Code:    ErrCodeNotRegistered,
		Name:    name,
		Message: fmt.Sprintf("service not registered: %s", name),
		Details: map[string]any{"service": name},
	}
}

// InvalidArgument creates an error for an unusable argument of the given kind.
func InvalidArgument(kind Kind, reason string) *Error {
	return New(kind, ErrCodeInvalidArgument, reason)
}

// Validation creates an application error for configuration that failed validation.
func Validation(message string) *Error {
	return New(KindApplication, ErrCodeInvalidConfig, message)
}

// --- Inspection helpers ---

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return walk(err, func(e *Error) bool { return e.Kind == kind })
}

// HasCode reports whether any *Error in err's chain has the given code.
func HasCode(err error, code ErrorCode) bool {
	return walk(err, func(e *Error) bool { return e.Code == code })
}

// IsNotRegistered reports whether err was caused by resolving an unknown service.
func IsNotRegistered(err error) bool {
	return HasCode(err, ErrCodeNotRegistered)
}

// Is, Join and Unwrap re-export the standard library helpers so callers need a
// single errors import.
var (
	Is     = stderrors.Is
	Join   = stderrors.Join
	Unwrap = stderrors.Unwrap
)

func walk(err error, match func(*Error) bool) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && match(e) {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				if walk(inner, match) {
					return true
				}
			}
			return false
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
