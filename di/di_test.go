package di

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/service"
)

type widget struct{ id int }

type serviceHooks struct {
	initCalls    int
	cleanupCalls int
	initErr      error
	cleanupErr   error
	seen         config.Map
}

func (h *serviceHooks) OnInitialize(_ context.Context, cfg config.Map) error {
	h.initCalls++
	h.seen = cfg
	return h.initErr
}

func (h *serviceHooks) OnCleanup(context.Context) error {
	h.cleanupCalls++
	return h.cleanupErr
}

func newTestContainer(opts ...Option) *Container {
	return NewContainer(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func newTestService(h *serviceHooks) *service.Base {
	return service.New("svc", h, service.WithLogger(logger.Nop()))
}

func TestRegisterAndResolve(t *testing.T) {
	c := newTestContainer()

	if err := c.Register("greeting", func() string { return "hello" }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	val, err := c.Get("greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected 'hello', got %v", val)
	}
}

func TestRegisterInstance(t *testing.T) {
	c := newTestContainer()
	w := &widget{id: 7}
	c.Register("widget", w)

	val, err := c.Resolve(context.Background(), "widget")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != w {
		t.Errorf("expected the registered instance, got %v", val)
	}
}

func TestSingletonResolvedTwiceIsIdentical(t *testing.T) {
	c := newTestContainer()
	calls := 0
	c.Register("widget", func() *widget {
		calls++
		return &widget{id: calls}
	})

	first, _ := c.Get("widget")
	second, _ := c.Get("widget")
	if first != second {
		t.Errorf("expected identical instances, got %v and %v", first, second)
	}
	if calls != 1 {
		t.Errorf("expected factory called once, got %d", calls)
	}
}

func TestResolveNotRegistered(t *testing.T) {
	c := newTestContainer()

	_, err := c.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for unregistered service")
	}
	if !errors.IsNotRegistered(err) {
		t.Errorf("expected not-registered error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' in error, got %q", err.Error())
	}
	if c.Has("nonexistent") {
		t.Error("expected Has to return false")
	}
}

func TestHasIgnoresCache(t *testing.T) {
	c := newTestContainer()
	c.Register("lazy", func() *widget { return &widget{} })

	if !c.Has("lazy") {
		t.Error("expected Has before resolve")
	}
	c.Get("lazy")
	c.CleanupAll(context.Background())
	if !c.Has("lazy") {
		t.Error("expected Has after the cache is cleared")
	}
}

func TestNonSingletonStillCached(t *testing.T) {
	c := newTestContainer()
	c.Register("widget", func() *widget { return &widget{} }, WithSingleton(false))

	first, _ := c.Get("widget")
	second, _ := c.Get("widget")
	if first != second {
		t.Error("expected non-singleton registrations to be cached by default")
	}
}

func TestStrictLifetimes(t *testing.T) {
	c := newTestContainer(WithStrictLifetimes())
	c.Register("transient", func() *widget { return &widget{} }, WithSingleton(false))
	c.Register("single", func() *widget { return &widget{} })

	first, _ := c.Get("transient")
	second, _ := c.Get("transient")
	if first == second {
		t.Error("expected a new instance per resolve in strict mode")
	}

	a, _ := c.Get("single")
	b, _ := c.Get("single")
	if a != b {
		t.Error("expected singletons to stay cached in strict mode")
	}
}

func TestFactoryWithErrorReturn(t *testing.T) {
	c := newTestContainer()
	cause := stderrors.New("boom")
	c.Register("good", func() (string, error) { return "value", nil })
	c.Register("bad", func() (*widget, error) { return nil, cause })

	val, err := c.Get("good")
	if err != nil || val != "value" {
		t.Fatalf("expected 'value', got %v (%v)", val, err)
	}

	_, err = c.Get("bad")
	if err == nil {
		t.Fatal("expected factory error")
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if !errors.HasCode(err, errors.ErrCodeCreationFailed) || !errors.IsKind(err, errors.KindService) {
		t.Errorf("expected service CREATION_FAILED error, got %v", err)
	}
}

func TestFactoryReturningNil(t *testing.T) {
	c := newTestContainer()
	c.Register("nil", func() any { return nil })

	if _, err := c.Get("nil"); err == nil {
		t.Error("expected error for a factory returning nil")
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	c := newTestContainer()

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"empty name", "", "x"},
		{"nil value", "x", nil},
		{"factory with arguments", "x", func(int) string { return "" }},
		{"factory with bad second result", "x", func() (string, int) { return "", 0 }},
		{"factory with no results", "x", func() {}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Register(tc.key, tc.value)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
	if len(c.Registrations()) != 0 {
		t.Error("expected rejected registrations not to be stored")
	}
}

func TestResolveInitializesService(t *testing.T) {
	c := newTestContainer()
	h := &serviceHooks{}
	c.Register("cache", func() *service.Base { return newTestService(h) },
		WithConfig(config.Map{"size": 4}))

	val, err := c.Get("cache")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	svc := val.(*service.Base)
	if !svc.IsInitialized() {
		t.Error("expected resolved service to be initialized")
	}
	if h.seen.Int("size", 0) != 4 {
		t.Errorf("expected registration config, got %v", h.seen)
	}

	c.Get("cache")
	if h.initCalls != 1 {
		t.Errorf("expected a cached service not to be re-initialized, got %d calls", h.initCalls)
	}
}

func TestResolveServiceInitFailureIsNotCached(t *testing.T) {
	c := newTestContainer()
	cause := stderrors.New("init failed")
	h := &serviceHooks{initErr: cause}
	calls := 0
	c.Register("cache", func() *service.Base {
		calls++
		return newTestService(h)
	})

	_, err := c.Get("cache")
	if err == nil {
		t.Fatal("expected initialization error")
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("expected cause in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to create service") {
		t.Errorf("unexpected message %q", err.Error())
	}

	c.Get("cache")
	if calls != 2 {
		t.Errorf("expected the failed instance not to be cached, got %d factory calls", calls)
	}
}

func TestReRegistrationEvictsWithoutCleanup(t *testing.T) {
	c := newTestContainer()
	h := &serviceHooks{}
	c.Register("cache", func() *service.Base { return newTestService(h) })
	first, _ := c.Get("cache")

	c.Register("cache", func() *service.Base { return newTestService(&serviceHooks{}) })
	second, _ := c.Get("cache")

	if first == second {
		t.Error("expected re-registration to evict the cached instance")
	}
	if h.cleanupCalls != 0 {
		t.Error("expected the evicted instance not to be cleaned up")
	}
}

func TestCleanupAll(t *testing.T) {
	c := newTestContainer()
	failing := &serviceHooks{cleanupErr: stderrors.New("flush failed")}
	healthy := &serviceHooks{}
	unresolved := &serviceHooks{}
	c.Register("failing", func() *service.Base { return newTestService(failing) })
	c.Register("healthy", func() *service.Base { return newTestService(healthy) })
	c.Register("unresolved", func() *service.Base { return newTestService(unresolved) })
	c.Register("plain", &widget{})

	c.Get("failing")
	c.Get("healthy")
	c.Get("plain")

	c.CleanupAll(context.Background())

	if failing.cleanupCalls != 1 || healthy.cleanupCalls != 1 {
		t.Errorf("expected every cached service cleaned once, got %d and %d",
			failing.cleanupCalls, healthy.cleanupCalls)
	}
	if unresolved.cleanupCalls != 0 {
		t.Error("expected unresolved services to be left alone")
	}
	for _, r := range c.Registrations() {
		if r.Cached {
			t.Errorf("expected empty cache, %s still cached", r.Name)
		}
	}

	c.Get("healthy")
	if healthy.initCalls != 2 {
		t.Errorf("expected a fresh instance after cleanup, got %d inits", healthy.initCalls)
	}
}

func TestCloseCleansUp(t *testing.T) {
	c := newTestContainer()
	h := &serviceHooks{}
	c.Register("cache", func() *service.Base { return newTestService(h) })
	c.Get("cache")

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if h.cleanupCalls != 1 {
		t.Errorf("expected Close to clean up, got %d", h.cleanupCalls)
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestContainer()
	calls := 0
	c.Register("svc", func() *widget {
		calls++
		return &widget{id: calls}
	})

	c.Get("svc")
	if err := c.Invalidate("svc"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	c.Get("svc")
	if calls != 2 {
		t.Errorf("expected 2 calls after invalidation, got %d", calls)
	}

	if err := c.Invalidate("missing"); !errors.IsNotRegistered(err) {
		t.Errorf("expected not-registered error, got %v", err)
	}
}

func TestFactoryMayResolveOtherServices(t *testing.T) {
	c := newTestContainer()
	c.Register("base", &widget{id: 1})
	c.Register("derived", func() (*widget, error) {
		base, err := Resolve[*widget](context.Background(), c, "base")
		if err != nil {
			return nil, err
		}
		return &widget{id: base.id + 1}, nil
	})

	w, err := Resolve[*widget](context.Background(), c, "derived")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if w.id != 2 {
		t.Errorf("expected id 2, got %d", w.id)
	}
}

func TestConcurrentResolveReturnsOneInstance(t *testing.T) {
	c := newTestContainer()
	c.Register("widget", func() *widget { return &widget{} })

	const n = 16
	results := make([]any, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get("widget")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("expected every resolver to get the cached instance")
		}
	}
}

func TestRegistrations(t *testing.T) {
	c := newTestContainer()
	c.Register("b-instance", "hello")
	c.Register("a-factory", func() string { return "world" }, WithSingleton(false))
	c.Get("b-instance")

	regs := c.Registrations()
	if len(regs) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(regs))
	}
	if regs[0].Name != "a-factory" || regs[1].Name != "b-instance" {
		t.Errorf("expected sorted names, got %v", regs)
	}
	if !regs[0].Factory || regs[0].Singleton || regs[0].Cached {
		t.Errorf("unexpected factory info %+v", regs[0])
	}
	if regs[1].Factory || !regs[1].Singleton || !regs[1].Cached {
		t.Errorf("unexpected instance info %+v", regs[1])
	}
}

func TestGenericMustResolve(t *testing.T) {
	c := newTestContainer()
	c.Register("str", "hello")

	if val := MustResolve[string](context.Background(), c, "str"); val != "hello" {
		t.Errorf("expected 'hello', got %q", val)
	}
}

func TestGenericMustResolvePanicsOnMissing(t *testing.T) {
	c := newTestContainer()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	MustResolve[string](context.Background(), c, "missing")
}

func TestGenericMustResolvePanicsOnTypeMismatch(t *testing.T) {
	c := newTestContainer()
	c.Register("num", 42)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on type mismatch")
		}
	}()
	MustResolve[string](context.Background(), c, "num")
}

func TestGenericResolve(t *testing.T) {
	c := newTestContainer()
	c.Register("num", 42)
	ctx := context.Background()

	val, err := Resolve[int](ctx, c, "num")
	if err != nil || val != 42 {
		t.Errorf("expected 42, got %d (%v)", val, err)
	}
	if _, err := Resolve[string](ctx, c, "num"); err == nil {
		t.Error("expected error on type mismatch")
	}
	if _, err := Resolve[int](ctx, c, "missing"); !errors.IsNotRegistered(err) {
		t.Errorf("expected wrapped not-registered error, got %v", err)
	}
}

func TestTryResolve(t *testing.T) {
	c := newTestContainer()
	c.Register("str", "hello")
	ctx := context.Background()

	val, ok := TryResolve[string](ctx, c, "str")
	if !ok || val != "hello" {
		t.Errorf("expected 'hello', got %q", val)
	}
	if _, ok := TryResolve[string](ctx, c, "missing"); ok {
		t.Error("expected TryResolve to return false for missing name")
	}
	if _, ok := TryResolve[int](ctx, c, "str"); ok {
		t.Error("expected TryResolve to return false on type mismatch")
	}
}
