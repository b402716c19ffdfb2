package observability

import "slices"

// HealthStatus represents the health state of a component or application.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusUp:
		return 0
	case HealthStatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worst returns the least healthy of s and other.
func (s HealthStatus) Worst(other HealthStatus) HealthStatus {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// Health describes the health of a single lifecycle participant.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// StateHealth derives health from a lifecycle state name. States listed in
// Up report up, states in Down report down and any other state is
// degraded.
//
//	var componentHealth = observability.StateHealth{Up: []string{"STARTED"}, Down: []string{"ERROR"}}
//	h := componentHealth.Of("cache", c.State().String())
type StateHealth struct {
	Up   []string
	Down []string
}

// Of returns the health of name in state. The state is reported in
// Details under "state".
func (m StateHealth) Of(name, state string) Health {
	h := Health{
		Name:    name,
		Details: map[string]string{"state": state},
	}
	switch {
	case slices.Contains(m.Up, state):
		h.Status = HealthStatusUp
	case slices.Contains(m.Down, state):
		h.Status = HealthStatusDown
		h.Message = "last lifecycle operation failed"
	default:
		h.Status = HealthStatusDegraded
		h.Message = name + " is " + state
	}
	return h
}

// ServiceHealth is the health of an application: its own state folded
// together with that of its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	InstanceID string       `json:"instance_id,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent records a component's health. The overall status only gets
// worse.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	sh.Status = sh.Status.Worst(ch.Status)
}

// Apply folds the application's own health into the overall status without
// listing it as a component.
func (sh *ServiceHealth) Apply(own Health) {
	sh.Status = sh.Status.Worst(own.Status)
}
