package di

import (
	"context"
	"fmt"
)

// MustResolve resolves a service with type safety, panics on error.
//
// Example:
//
//	cache := di.MustResolve[*CacheService](ctx, app, "cache")
func MustResolve[T any](ctx context.Context, r Resolver, name string) T {
	instance, err := r.Resolve(ctx, name)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", name, err))
	}
	result, ok := instance.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("di: service %s is %T, expected %T", name, instance, zero))
	}
	return result
}

// Resolve resolves a service with type safety, returns error on failure.
// Resolution errors are wrapped, so errors.IsNotRegistered still applies.
//
// Example:
//
//	cache, err := di.Resolve[*CacheService](ctx, container, "cache")
//	if err != nil {
//	    return fmt.Errorf("failed to get cache: %w", err)
//	}
func Resolve[T any](ctx context.Context, r Resolver, name string) (T, error) {
	var zero T
	instance, err := r.Resolve(ctx, name)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", name, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: service %s is %T, expected %T", name, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a service, returns zero value and false if it is missing,
// fails to resolve or has a different type.
//
// Example:
//
//	if metrics, ok := di.TryResolve[MetricsClient](ctx, c, "metrics"); ok {
//	    metrics.RecordEvent(...)
//	}
func TryResolve[T any](ctx context.Context, r Resolver, name string) (T, bool) {
	var zero T
	instance, err := r.Resolve(ctx, name)
	if err != nil {
		return zero, false
	}
	result, ok := instance.(T)
	if !ok {
		return zero, false
	}
	return result, true
}
