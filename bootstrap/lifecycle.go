package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	apperrors "github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
)

// Initialize runs the startup handlers in registration order, then
// initializes every component in registration order with the application as
// host. The first failure aborts the sequence, moves the application to
// ERROR and is returned wrapped in an application error. Work already done
// is not rolled back.
func (a *App) Initialize(ctx context.Context) error {
	from := a.State()
	ctx, op := a.tracker.Begin(ctx, observability.KindApplication, a.name, "initialize", from.String(), a.attrs()...)
	a.log.Info("Initializing application", map[string]interface{}{
		logger.FieldCount: a.components.Len(),
	})

	err := a.runHandlers(ctx, a.handlers(true))
	if err == nil {
		err = a.components.InitializeAll(ctx, a)
	}
	if err != nil {
		a.setState(StateError)
		op.End(ctx, StateError.String(), err)
		a.log.Error("Failed to initialize application", logger.ErrorFields("initialize", err))
		return apperrors.ApplicationError(apperrors.ErrCodeInitializationFailed, "initialization failed", err).
			WithName(a.name)
	}

	a.setState(StateRunning)
	op.End(ctx, StateRunning.String(), nil)
	a.log.Info("Application initialized successfully")
	return nil
}

// Run initializes the application, installs the signal watcher and starts
// every component in registration order. It returns once all components are
// started; use RunUntilSignal to block.
//
// A component that fails to start moves the application to ERROR. The
// components started before it are left running for Shutdown to stop.
//
// Shutdown waits while components are starting, unless it is called with
// the context handed to a start hook. In that case it runs at once and the
// remaining components are not started; Run then returns an INVALID_STATE
// error.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	a.watchSignals()

	ctx, op := a.tracker.Begin(ctx, observability.KindApplication, a.name, "start", a.State().String(), a.attrs()...)
	a.shutdownMu.Lock()
	err := a.components.StartAllWhile(context.WithValue(ctx, startingKey{}, a), a.running)
	interrupted := err == nil && !a.running()
	if err != nil {
		a.setState(StateError)
	} else if interrupted {
		// The component whose start hook shut the application down was still
		// starting when StopAll ran.
		if stopErr := a.components.StopAll(ctx); stopErr != nil {
			a.log.Warn("Failed to stop components started during shutdown", logger.ErrorFields("stop", stopErr))
		}
	}
	a.shutdownMu.Unlock()

	if err != nil {
		op.End(ctx, StateError.String(), err)
		a.log.Error("Failed to start application", logger.ErrorFields("start", err))
		return apperrors.ApplicationError(apperrors.ErrCodeStartFailed, "start failed", err).
			WithName(a.name)
	}
	if interrupted {
		err = apperrors.ApplicationError(apperrors.ErrCodeInvalidState, "application shut down while starting", nil).
			WithName(a.name)
		op.End(ctx, a.State().String(), err)
		return err
	}
	op.End(ctx, StateRunning.String(), nil)

	a.mu.Lock()
	a.startedAt = start
	a.mu.Unlock()

	snap := a.Snapshot(ctx)
	a.log.Info("Application is running", snap.Fields())
	if a.summaryOut != nil {
		snap.Write(a.summaryOut)
	}
	return nil
}

// RunUntilSignal runs the application and blocks until a watched signal
// arrives or ctx is done, then shuts down. If Run fails, whatever was
// started is shut down and the Run error is returned.
func (a *App) RunUntilSignal(ctx context.Context) error {
	if err := a.Run(ctx); err != nil {
		if shutdownErr := a.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			a.log.Warn("Shutdown after failed start reported errors", logger.ErrorFields("shutdown", shutdownErr))
		}
		return err
	}

	a.log.Info("Application ready, waiting for shutdown signal")
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		a.log.Info("Context canceled, shutting down")
	}
	return a.Shutdown(context.WithoutCancel(ctx))
}

// watchSignals starts a goroutine that calls Shutdown when one of the
// configured signals arrives. It is installed at most once per App.
func (a *App) watchSignals() {
	a.mu.Lock()
	if a.watching || len(a.signals) == 0 {
		a.mu.Unlock()
		return
	}
	a.watching = true
	a.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			a.log.Info("Received signal, initiating shutdown", map[string]interface{}{
				logger.FieldSignal: sig.String(),
			})
			if err := a.Shutdown(context.Background()); err != nil {
				a.log.Warn("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
			}
		case <-a.done:
		}
	}()
}

// Shutdown stops every component in reverse registration order, then runs
// the shutdown handlers in registration order, then cleans up the service
// container. A failing component or handler is logged and does not prevent
// the rest from running; the failures are returned joined once the
// application is STOPPED.
//
// Shutdown is a no-op while another shutdown is in progress or once the
// application is STOPPED. A panic raised by a component or handler moves
// the application to ERROR and is propagated.
func (a *App) Shutdown(ctx context.Context) error {
	// Checked before locking so a handler calling Shutdown returns at once.
	if s := a.State(); s == StateStopping || s == StateStopped {
		return nil
	}
	if ctx.Value(startingKey{}) != a {
		a.shutdownMu.Lock()
		defer a.shutdownMu.Unlock()
	}

	from := a.State()
	if from == StateStopping || from == StateStopped {
		return nil
	}

	a.setState(StateStopping)
	ctx, op := a.tracker.Begin(ctx, observability.KindApplication, a.name, "shutdown", from.String(), a.attrs()...)
	a.log.Info("Shutting down application")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.setState(StateError)
			err := fmt.Errorf("panic during shutdown: %v", r)
			op.End(ctx, StateError.String(), err)
			a.log.Error("Error during shutdown", logger.ErrorFields("shutdown", err))
			a.closeDone()
			panic(r)
		}
	}()

	var errs []error
	if err := a.components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, a.runHandlersContained(ctx, a.handlers(false))...)
	a.container.CleanupAll(ctx)

	a.setState(StateStopped)
	op.End(ctx, StateStopped.String(), nil)
	a.closeDone()

	fields := logger.DurationFields("shutdown", time.Since(start))
	if len(errs) > 0 {
		fields[logger.FieldCount] = len(errs)
		a.log.Warn("Application shutdown complete with errors", fields)
		return apperrors.ApplicationError(apperrors.ErrCodeStopFailed, "shutdown completed with errors",
			errors.Join(errs...)).WithName(a.name)
	}
	a.log.Info("Application shutdown complete", fields)
	return nil
}

// startingKey marks the context Run hands to component start hooks. Run
// holds shutdownMu for the duration.
type startingKey struct{}

func (a *App) running() bool { return a.State() == StateRunning }

func (a *App) closeDone() {
	a.doneOnce.Do(func() { close(a.done) })
}

// Scope initializes the application, runs fn and shuts down afterwards, even
// if fn fails or panics. If Initialize fails its error is returned and
// nothing is shut down. fn's error takes precedence over a shutdown error.
//
//	err := app.Scope(ctx, func(ctx context.Context, app *bootstrap.App) error {
//	    return migrate(ctx, app)
//	})
func (a *App) Scope(ctx context.Context, fn func(ctx context.Context, app *App) error) (err error) {
	if err := a.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		if shutdownErr := a.Shutdown(context.WithoutCancel(ctx)); err == nil {
			err = shutdownErr
		}
	}()
	return fn(ctx, a)
}
