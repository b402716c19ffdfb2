package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
)

// ComponentHooks implements every component hook. Each call is recorded as
// "<name>.initialize", "<name>.start" or "<name>.stop" and returns the
// matching configured error.
type ComponentHooks struct {
	Name     string
	Recorder *Recorder

	InitErr  error
	StartErr error
	StopErr  error

	// OnInit runs inside the initialize hook, after recording.
	OnInit func(ctx context.Context, host component.Host) error

	mu       sync.Mutex
	calls    map[string]int
	lastHost component.Host
}

// NewComponent returns a component named name whose hooks record into rec.
func NewComponent(name string, rec *Recorder, opts ...component.Option) (*component.Base, *ComponentHooks) {
	h := &ComponentHooks{Name: name, Recorder: rec}
	return component.New(name, h, opts...), h
}

func (h *ComponentHooks) record(op string) {
	h.mu.Lock()
	if h.calls == nil {
		h.calls = make(map[string]int)
	}
	h.calls[op]++
	h.mu.Unlock()
	if h.Recorder != nil {
		h.Recorder.Record(h.Name + "." + op)
	}
}

// Calls returns how many times the hook for op ran.
func (h *ComponentHooks) Calls(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[op]
}

// Host returns the host seen by the last initialize hook.
func (h *ComponentHooks) Host() component.Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastHost
}

func (h *ComponentHooks) OnInitialize(ctx context.Context, host component.Host) error {
	h.record("initialize")
	h.mu.Lock()
	h.lastHost = host
	h.mu.Unlock()
	if h.OnInit != nil {
		if err := h.OnInit(ctx, host); err != nil {
			return err
		}
	}
	return h.InitErr
}

func (h *ComponentHooks) OnStart(context.Context) error {
	h.record("start")
	return h.StartErr
}

func (h *ComponentHooks) OnStop(context.Context) error {
	h.record("stop")
	return h.StopErr
}

// ServiceHooks implements both service hooks, recording "<name>.initialize"
// and "<name>.cleanup".
type ServiceHooks struct {
	Name     string
	Recorder *Recorder

	InitErr    error
	CleanupErr error

	mu     sync.Mutex
	calls  map[string]int
	config config.Map
}

func (h *ServiceHooks) record(op string) {
	h.mu.Lock()
	if h.calls == nil {
		h.calls = make(map[string]int)
	}
	h.calls[op]++
	h.mu.Unlock()
	if h.Recorder != nil {
		h.Recorder.Record(h.Name + "." + op)
	}
}

// Calls returns how many times the hook for op ran.
func (h *ServiceHooks) Calls(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[op]
}

// Config returns the options seen by the last initialize hook.
func (h *ServiceHooks) Config() config.Map {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.config
}

func (h *ServiceHooks) OnInitialize(_ context.Context, cfg config.Map) error {
	h.record("initialize")
	h.mu.Lock()
	h.config = cfg
	h.mu.Unlock()
	return h.InitErr
}

func (h *ServiceHooks) OnCleanup(context.Context) error {
	h.record("cleanup")
	return h.CleanupErr
}
