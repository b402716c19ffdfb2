// Package testutil provides recording hooks and helpers for testing code
// built on the appkit lifecycle.
//
//	rec := testutil.NewRecorder()
//	cache, hooks := testutil.NewComponent("cache", rec, rec.Transitions())
//	testutil.T(t).Run(cache, testutil.NewHost("orders", nil))
//
//	hooks.Calls("start")        // 1
//	rec.Events()                // [cache.initialize cache.start]
//	rec.SettledStates("cache")  // [CREATED INITIALIZED STARTED]
//
// ComponentHooks and ServiceHooks return configurable errors from each hook,
// which makes failure paths as easy to drive as the happy path.
package testutil
