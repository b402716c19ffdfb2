package di

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/service"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Resolver resolves named services. Container and bootstrap.App implement it.
type Resolver interface {
	Resolve(ctx context.Context, name string) (any, error)
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Name      string `json:"name"`
	Singleton bool   `json:"singleton"`
	Factory   bool   `json:"factory"`
	Cached    bool   `json:"cached"`
}

type registration struct {
	name      string
	create    func() (any, error)
	factory   bool
	config    config.Map
	singleton bool
}

// Container maps service names to factories and caches what they produce.
//
// Resolved instances are cached regardless of the singleton flag unless the
// container was built with WithStrictLifetimes. Instances that implement
// service.Service are initialized with their registration config before they
// are returned, and cleaned up by CleanupAll.
type Container struct {
	mu            sync.RWMutex
	registrations map[string]*registration
	instances     map[string]any
	order         []string // cache insertion order, used by CleanupAll

	strict bool
	log    *logger.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithStrictLifetimes makes registrations with WithSingleton(false) produce a
// fresh instance on every resolve instead of being cached.
func WithStrictLifetimes() Option {
	return func(c *Container) { c.strict = true }
}

// WithLogger sets the container logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// NewContainer creates an empty container.
func NewContainer(opts ...Option) *Container {
	c := &Container{
		registrations: make(map[string]*registration),
		instances:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger().WithComponent("container")
	}
	return c
}

// RegisterOption configures a single registration.
type RegisterOption func(*registration)

// WithConfig sets the options passed to the service's Initialize.
func WithConfig(cfg config.Map) RegisterOption {
	return func(r *registration) { r.config = cfg.Clone() }
}

// WithSingleton sets the singleton flag. Registrations are singletons by default.
func WithSingleton(singleton bool) RegisterOption {
	return func(r *registration) { r.singleton = singleton }
}

// Register stores a factory or instance under name, replacing any previous
// registration. A func() T or func() (T, error) value is treated as a factory;
// any other value is an instance returned as-is on resolve.
//
// Re-registering a name drops its cached instance without cleaning it up.
func (c *Container) Register(name string, factoryOrInstance any, opts ...RegisterOption) error {
	if name == "" {
		return errors.InvalidArgument(errors.KindService, "service name must not be empty")
	}
	if factoryOrInstance == nil {
		return errors.InvalidArgument(errors.KindService, "factory must not be nil").WithName(name)
	}

	create, isFactory, err := makeFactory(factoryOrInstance)
	if err != nil {
		return errors.InvalidArgument(errors.KindService, err.Error()).WithName(name)
	}

	reg := &registration{
		name:      name,
		create:    create,
		factory:   isFactory,
		config:    config.Map{},
		singleton: true,
	}
	for _, opt := range opts {
		opt(reg)
	}

	c.mu.Lock()
	c.registrations[name] = reg
	evicted := c.evictLocked(name)
	c.mu.Unlock()

	c.log.Info("Service registered", logger.Fields(
		logger.FieldService, name,
		"singleton", reg.singleton,
		"evicted", evicted,
	))
	return nil
}

// Has reports whether name is registered. The cache is not consulted.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registrations[name]
	return ok
}

// Get resolves name with a background context.
func (c *Container) Get(name string) (any, error) {
	return c.Resolve(context.Background(), name)
}

// Resolve returns the cached instance for name or creates it. Factories run
// without the container lock held, so a factory may resolve other services.
func (c *Container) Resolve(ctx context.Context, name string) (any, error) {
	c.mu.RLock()
	instance, cached := c.instances[name]
	reg, registered := c.registrations[name]
	c.mu.RUnlock()

	if cached {
		return instance, nil
	}
	if !registered {
		return nil, errors.NotRegistered(name)
	}

	instance, err := c.create(ctx, reg)
	if err != nil {
		c.log.Error("Failed to create service", logger.MergeWithError(
			logger.Fields(logger.FieldService, name), err))
		return nil, errors.ServiceError(errors.ErrCodeCreationFailed, "failed to create service", err).
			WithName(name)
	}

	if c.strict && !reg.singleton {
		c.log.Debug("Created transient service instance", logger.Fields(logger.FieldService, name))
		return instance, nil
	}

	c.mu.Lock()
	if existing, ok := c.instances[name]; ok {
		// Another resolve finished first; keep its instance.
		c.mu.Unlock()
		c.discard(ctx, name, instance)
		return existing, nil
	}
	if c.registrations[name] != reg {
		// Re-registered while the factory ran; do not cache a stale instance.
		c.mu.Unlock()
		return instance, nil
	}
	c.instances[name] = instance
	c.order = append(c.order, name)
	c.mu.Unlock()

	c.log.Debug("Created service instance", logger.Fields(logger.FieldService, name))
	return instance, nil
}

func (c *Container) create(ctx context.Context, reg *registration) (any, error) {
	instance, err := reg.create()
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, fmt.Errorf("factory for %s returned nil", reg.name)
	}
	if svc, ok := instance.(service.Service); ok {
		if err := svc.Initialize(ctx, reg.config.Clone()); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Container) discard(ctx context.Context, name string, instance any) {
	if svc, ok := instance.(service.Service); ok {
		if err := svc.Cleanup(ctx); err != nil {
			c.log.Warn("Failed to clean up duplicate service instance", logger.MergeWithError(
				logger.Fields(logger.FieldService, name), err))
		}
	}
}

// Invalidate forgets the cached instance for name so the next resolve
// creates a new one. The forgotten instance is not cleaned up.
func (c *Container) Invalidate(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.registrations[name]; !ok {
		return errors.NotRegistered(name)
	}
	c.evictLocked(name)
	return nil
}

// CleanupAll cleans up every cached instance that implements service.Service,
// in the order the instances were created. Cleanup failures are logged and
// skipped. The cache is always emptied.
func (c *Container) CleanupAll(ctx context.Context) {
	c.mu.Lock()
	order := c.order
	instances := c.instances
	c.order = nil
	c.instances = make(map[string]any)
	c.mu.Unlock()

	for _, name := range order {
		svc, ok := instances[name].(service.Service)
		if !ok {
			continue
		}
		if err := svc.Cleanup(ctx); err != nil {
			c.log.Error("Error cleaning up service", logger.MergeWithError(
				logger.Fields(logger.FieldService, name), err))
			continue
		}
		c.log.Debug("Cleaned up service", logger.Fields(logger.FieldService, name))
	}

	c.log.Info("All services cleaned up", logger.Fields(logger.FieldCount, len(order)))
}

// Close cleans up all cached services with a background context.
func (c *Container) Close() error {
	c.CleanupAll(context.Background())
	return nil
}

// Registrations returns every registration sorted by name.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.registrations))
	for name, reg := range c.registrations {
		_, cached := c.instances[name]
		result = append(result, RegistrationInfo{
			Name:      name,
			Singleton: reg.singleton,
			Factory:   reg.factory,
			Cached:    cached,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (c *Container) evictLocked(name string) bool {
	if _, ok := c.instances[name]; !ok {
		return false
	}
	delete(c.instances, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// makeFactory turns a registered value into a constructor. Zero-argument
// functions returning (T) or (T, error) are factories; other functions are
// rejected; everything else is an instance.
func makeFactory(v any) (create func() (any, error), isFactory bool, err error) {
	fn := reflect.ValueOf(v)
	if fn.Kind() != reflect.Func {
		return func() (any, error) { return v, nil }, false, nil
	}
	if fn.IsNil() {
		return nil, false, fmt.Errorf("factory must not be nil")
	}

	fnType := fn.Type()
	if fnType.NumIn() != 0 {
		return nil, false, fmt.Errorf("factory must take no arguments, got %s", fnType)
	}

	switch {
	case fnType.NumOut() == 1:
		return func() (any, error) {
			return fn.Call(nil)[0].Interface(), nil
		}, true, nil
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
		return func() (any, error) {
			results := fn.Call(nil)
			if errVal := results[1].Interface(); errVal != nil {
				return nil, errVal.(error)
			}
			return results[0].Interface(), nil
		}, true, nil
	default:
		return nil, false, fmt.Errorf("factory must return (instance) or (instance, error), got %s", fnType)
	}
}
