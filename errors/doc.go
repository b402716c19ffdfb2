// Package errors provides the layered error type used across appkit.
//
// Each lifecycle layer raises its own kind of error (application, component,
// service). Every error keeps the original failure as its cause, so callers can
// use errors.As / errors.Is on the full chain:
//
//	if errors.IsNotRegistered(err) {
//	    // fall back to a default
//	}
package errors
