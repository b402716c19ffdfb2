package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/errors"
)

// Host is an in-memory component.Host serving a fixed set of services.
type Host struct {
	AppName string

	mu       sync.RWMutex
	services map[string]any
}

// NewHost creates a host named name with the given services.
func NewHost(name string, services map[string]any) *Host {
	h := &Host{AppName: name, services: make(map[string]any, len(services))}
	for k, v := range services {
		h.services[k] = v
	}
	return h
}

// Name returns the host name.
func (h *Host) Name() string { return h.AppName }

// Set adds or replaces a service.
func (h *Host) Set(name string, svc any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.services == nil {
		h.services = make(map[string]any)
	}
	h.services[name] = svc
}

// GetService returns the named service or a not-registered error.
func (h *Host) GetService(_ context.Context, name string) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.services[name]
	if !ok {
		return nil, errors.NotRegistered(name)
	}
	return svc, nil
}

// THelper provides testing.T integration for easier test setup.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T to provide helper methods.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    testutil.T(t).Run(cache, host)
//	    // cache is stopped when the test ends
//	}
func T(t *testing.T) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Run initializes and starts c with host and stops it when the test ends.
func (h *THelper) Run(c component.Component, host component.Host) {
	h.t.Helper()
	if err := c.Initialize(h.ctx, host); err != nil {
		h.t.Fatalf("failed to initialize component %s: %v", c.Name(), err)
	}
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}

	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}
