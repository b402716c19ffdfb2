package errors

// Kind identifies the layer an error was raised in.
type Kind string

const (
	// KindApplication marks failures raised by the application orchestrator.
	KindApplication Kind = "application"
	// KindComponent marks failures raised by a component lifecycle transition.
	KindComponent Kind = "component"
	// KindService marks failures raised by a service or the service container.
	KindService Kind = "service"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lifecycle errors
const (
	// ErrCodeInitializationFailed indicates an initialize hook or sequence failed.
	ErrCodeInitializationFailed ErrorCode = "INITIALIZATION_FAILED"
	// ErrCodeStartFailed indicates a start hook or sequence failed.
	ErrCodeStartFailed ErrorCode = "START_FAILED"
	// ErrCodeStopFailed indicates a stop hook failed.
	ErrCodeStopFailed ErrorCode = "STOP_FAILED"
	// ErrCodeCleanupFailed indicates a cleanup hook failed.
	ErrCodeCleanupFailed ErrorCode = "CLEANUP_FAILED"
	// ErrCodeInvalidState indicates an operation was called in the wrong lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Registry errors
const (
	// ErrCodeNotRegistered indicates no service is registered under the requested name.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeCreationFailed indicates a service factory or its initialization failed.
	ErrCodeCreationFailed ErrorCode = "CREATION_FAILED"
)

// Input errors
const (
	// ErrCodeInvalidArgument indicates a caller passed an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)
