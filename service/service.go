package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
)

// Service is a unit with an initialize/cleanup lifecycle. The di container
// drives any resolved instance that satisfies it.
type Service interface {
	Initialize(ctx context.Context, cfg config.Map) error
	Cleanup(ctx context.Context) error
}

// Initializer is implemented by hooks that run when the service initializes.
type Initializer interface {
	OnInitialize(ctx context.Context, cfg config.Map) error
}

// Cleaner is implemented by hooks that release the service's resources.
type Cleaner interface {
	OnCleanup(ctx context.Context) error
}

// Option configures a Base.
type Option func(*Base)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *logger.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// Base implements Service around optional hooks. Initialize is idempotent:
// a second call logs a warning and does nothing. Cleanup is a no-op until the
// service has been initialized.
type Base struct {
	name        string
	initializer Initializer
	cleaner     Cleaner
	log         *logger.Logger

	mu          sync.Mutex
	initialized bool
	cfg         config.Map
}

// New creates a service named name. hooks may implement Initializer, Cleaner,
// both or neither; the capabilities are resolved once here.
func New(name string, hooks any, opts ...Option) *Base {
	b := &Base{name: name}
	if h, ok := hooks.(Initializer); ok {
		b.initializer = h
	}
	if h, ok := hooks.(Cleaner); ok {
		b.cleaner = h
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.GetGlobalLogger().WithService(name)
	}
	return b
}

// Name returns the service name.
func (b *Base) Name() string { return b.name }

// IsInitialized reports whether Initialize has succeeded and Cleanup has not.
func (b *Base) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Config returns the options passed to the last successful Initialize.
func (b *Base) Config() config.Map {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Initialize runs the initialize hook with cfg. A nil cfg is passed to the
// hook as an empty Map.
func (b *Base) Initialize(ctx context.Context, cfg config.Map) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		b.log.Warn("Service already initialized")
		return nil
	}
	if cfg == nil {
		cfg = config.Map{}
	}

	if b.initializer != nil {
		if err := b.initializer.OnInitialize(ctx, cfg); err != nil {
			b.log.Error("Service initialization failed", logger.ErrorFields("initialize", err))
			return errors.ServiceError(errors.ErrCodeInitializationFailed, "initialization failed", err).
				WithName(b.name)
		}
	}

	b.initialized = true
	b.cfg = cfg
	b.log.Info("Service initialized")
	return nil
}

// Cleanup runs the cleanup hook. On failure the service stays initialized so
// Cleanup can be retried.
func (b *Base) Cleanup(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}

	if b.cleaner != nil {
		if err := b.cleaner.OnCleanup(ctx); err != nil {
			b.log.Error("Service cleanup failed", logger.ErrorFields("cleanup", err))
			return errors.ServiceError(errors.ErrCodeCleanupFailed, "cleanup failed", err).
				WithName(b.name)
		}
	}

	b.initialized = false
	b.log.Info("Service cleaned up")
	return nil
}

func (b *Base) String() string {
	return fmt.Sprintf("service(%s initialized=%t)", b.name, b.IsInitialized())
}
