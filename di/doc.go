// Package di provides the service container used by appkit applications.
//
// A registration is a factory (func() T or func() (T, error)) or a ready
// instance, plus the options handed to the service when it is initialized.
// Instances are created on first resolve and cached under their name.
// Anything that implements service.Service is initialized with its
// registration options before it is returned and cleaned up by CleanupAll.
//
// # Registration
//
//	c := di.NewContainer()
//	c.Register("cache", NewCacheService, di.WithConfig(config.Map{"size": 512}))
//
// # Resolution
//
//	cache := di.MustResolve[*CacheService](ctx, c, "cache")
//
// The singleton flag is recorded but resolved instances are cached either way.
// Build the container with WithStrictLifetimes to get a fresh instance per
// resolve for registrations made with WithSingleton(false).
package di
