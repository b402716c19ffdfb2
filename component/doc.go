// Package component provides lifecycle-managed units for appkit applications.
//
// A component moves through a fixed state machine:
//
//	CREATED → INITIALIZING → INITIALIZED → STARTING → STARTED → STOPPING → STOPPED
//
// Any failing hook moves it to ERROR. Start is only valid from INITIALIZED;
// Stop does nothing unless the component is STARTED or in ERROR.
//
// # Building components
//
// New wraps a value implementing any of Initializer, Starter, Stopper and
// Describable in a Base that enforces the state machine, logs each operation
// and records it as a span through an observability.Tracker:
//
//	type cache struct{ lru *lru.Cache }
//
//	func (c *cache) OnStart(ctx context.Context) error { ... }
//	func (c *cache) OnStop(ctx context.Context) error  { ... }
//
//	comp := component.New("cache", &cache{})
//
// Stateful adds a key/value store that is cleared when the component stops.
//
// # Registry
//
// Registry keeps components in registration order, starts them in that
// order and stops them in reverse. The application in package bootstrap
// drives a Registry; Host is how a component reaches back into it for
// services.
package component
