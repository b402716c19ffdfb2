package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/appkit/logger"
)

// Handler is a lifecycle callback that runs during application startup or
// shutdown. It receives the application so it can register or resolve
// services without bootstrap knowing about specific infrastructure.
type Handler func(ctx context.Context, app *App) error

// OnStartup registers handlers that run at the beginning of Initialize,
// before any component is initialized.
func (a *App) OnStartup(handlers ...Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStartup = append(a.onStartup, handlers...)
}

// OnShutdown registers handlers that run during Shutdown, after every
// component has been stopped. Use this for cleanup tasks like flushing
// buffers or deregistering from service discovery.
func (a *App) OnShutdown(handlers ...Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShutdown = append(a.onShutdown, handlers...)
}

// runHandlers executes handlers sequentially, returning the first error.
func (a *App) runHandlers(ctx context.Context, handlers []Handler) error {
	for i, h := range handlers {
		if err := h(ctx, a); err != nil {
			return fmt.Errorf("startup handler %d failed: %w", i, err)
		}
	}
	return nil
}

// runHandlersContained executes every handler, logging failures instead of
// stopping at them, and returns the failures.
func (a *App) runHandlersContained(ctx context.Context, handlers []Handler) []error {
	var errs []error
	for i, h := range handlers {
		if err := h(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("shutdown handler %d failed: %w", i, err))
			a.log.Error("Shutdown handler failed", logger.MergeWithError(map[string]interface{}{
				logger.FieldHandler: i,
			}, err))
		}
	}
	return errs
}
