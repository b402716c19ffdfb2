// Package service provides the two-state service lifecycle.
//
// A service is either initialized or not. Initialize is safe to call twice
// (the second call only logs a warning) and Cleanup is safe to call on a
// service that was never initialized. This is the opposite policy from
// component.Base.Start, which rejects calls made in the wrong state.
//
//	type cacheHooks struct{ store map[string]string }
//
//	func (h *cacheHooks) OnInitialize(ctx context.Context, cfg config.Map) error {
//	    h.store = make(map[string]string, cfg.Int("size", 128))
//	    return nil
//	}
//
//	svc := service.New("cache", &cacheHooks{})
//	err := svc.Initialize(ctx, config.Map{"size": 512})
package service
