package component_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/appkit/component"
	apperrors "github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
	"github.com/kbukum/appkit/testutil"
)

func newRegistry(t *testing.T, rec *testutil.Recorder, names ...string) (*component.Registry, map[string]*testutil.ComponentHooks) {
	t.Helper()
	r := component.NewRegistry(logger.Nop())
	hooks := make(map[string]*testutil.ComponentHooks, len(names))
	for _, name := range names {
		c, h := newComponent(name, rec)
		_, err := r.Register(c)
		require.NoError(t, err)
		hooks[name] = h
	}
	return r, hooks
}

func TestRegistryOrder(t *testing.T) {
	rec := testutil.NewRecorder()
	r, _ := newRegistry(t, rec, "db", "cache", "http")

	require.NoError(t, r.InitializeAll(ctx, host))
	require.NoError(t, r.StartAll(ctx))
	require.NoError(t, r.StopAll(ctx))

	assert.Equal(t, []string{"db.initialize", "cache.initialize", "http.initialize"}, rec.EventsWithSuffix(".initialize"))
	assert.Equal(t, []string{"db.start", "cache.start", "http.start"}, rec.EventsWithSuffix(".start"))
	assert.Equal(t, []string{"http.stop", "cache.stop", "db.stop"}, rec.EventsWithSuffix(".stop"))

	for _, st := range r.States() {
		assert.Equal(t, component.StateStopped, st.State, st.Name)
	}
}

func TestRegistryStartAbortsOnFirstFailure(t *testing.T) {
	rec := testutil.NewRecorder()
	r, hooks := newRegistry(t, rec, "db", "cache", "http")
	hooks["cache"].StartErr = errors.New("no memory")

	require.NoError(t, r.InitializeAll(ctx, host))
	err := r.StartAll(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStartFailed))

	assert.Equal(t, []component.Status{
		{Name: "db", State: component.StateStarted},
		{Name: "cache", State: component.StateError},
		{Name: "http", State: component.StateInitialized},
	}, r.States())
}

func TestRegistryInitializeAbortsOnFirstFailure(t *testing.T) {
	r, hooks := newRegistry(t, nil, "db", "cache")
	hooks["db"].InitErr = errors.New("refused")

	require.Error(t, r.InitializeAll(ctx, host))
	assert.Equal(t, 0, hooks["cache"].Calls("initialize"))
}

func TestRegistryStopAllContinuesPastFailures(t *testing.T) {
	rec := testutil.NewRecorder()
	r, hooks := newRegistry(t, rec, "db", "cache", "http")
	errDB := errors.New("db stuck")
	errHTTP := errors.New("http stuck")
	hooks["db"].StopErr = errDB
	hooks["http"].StopErr = errHTTP

	require.NoError(t, r.InitializeAll(ctx, host))
	require.NoError(t, r.StartAll(ctx))

	err := r.StopAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.ErrorIs(t, err, errHTTP)
	assert.Equal(t, []string{"http.stop", "cache.stop", "db.stop"}, rec.EventsWithSuffix(".stop"))
	assert.Equal(t, component.StateStopped, r.Get("cache").State())
}

func TestRegistryDuplicateNames(t *testing.T) {
	r, _ := newRegistry(t, nil, "worker", "worker")
	assert.Equal(t, 2, r.Len())
	assert.Same(t, r.All()[0], r.Get("worker"))
	assert.Nil(t, r.Get("missing"))
}

type plainWorker struct {
	rec *testutil.Recorder
}

func (w *plainWorker) Name() string { return "plain" }

func (w *plainWorker) Initialize(context.Context, component.Host) error {
	w.rec.Record("plain.initialize")
	return nil
}

func (w *plainWorker) Start(context.Context) error {
	w.rec.Record("plain.start")
	return nil
}

func (w *plainWorker) Describe() component.Description {
	return component.Description{Type: "worker"}
}

func TestRegistryAdaptsPlainValues(t *testing.T) {
	rec := testutil.NewRecorder()
	r := component.NewRegistry(logger.Nop())

	c, err := r.Register(&plainWorker{rec: rec}, quiet()...)
	require.NoError(t, err)
	assert.Equal(t, "plain", c.Name())
	assert.Equal(t, component.StateCreated, c.State())

	require.NoError(t, r.InitializeAll(ctx, host))
	require.NoError(t, r.StartAll(ctx))
	require.NoError(t, r.StopAll(ctx))
	assert.Equal(t, []string{"plain.initialize", "plain.start"}, rec.Events())
	assert.Equal(t, component.StateStopped, c.State())

	d, ok := c.(component.Describable)
	require.True(t, ok)
	assert.Equal(t, component.Description{Name: "plain", Type: "worker"}, d.Describe())
}

func TestRegistryRejectsInvalidValues(t *testing.T) {
	r := component.NewRegistry(logger.Nop())

	for _, v := range []any{nil, 42, struct{}{}} {
		_, err := r.Register(v)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))
		assert.True(t, apperrors.IsKind(err, apperrors.KindComponent))
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistryHealthAll(t *testing.T) {
	r, _ := newRegistry(t, nil, "db", "cache")
	require.NoError(t, r.InitializeAll(ctx, host))
	require.NoError(t, r.Get("db").Start(ctx))

	health := r.HealthAll(ctx)
	require.Len(t, health, 2)
	assert.Equal(t, observability.HealthStatusUp, health[0].Status)
	assert.Equal(t, observability.HealthStatusDegraded, health[1].Status)
}

func TestRegistryRunComponentHelper(t *testing.T) {
	rec := testutil.NewRecorder()
	c, hooks := newComponent("scoped", rec, rec.Transitions())

	t.Run("running", func(t *testing.T) {
		testutil.T(t).Run(c, host)
		assert.Equal(t, component.StateStarted, c.State())
	})

	assert.Equal(t, 1, hooks.Calls("stop"))
	assert.Equal(t, []component.State{
		component.StateCreated,
		component.StateInitialized,
		component.StateStarted,
		component.StateStopped,
	}, rec.SettledStates("scoped"))
}
