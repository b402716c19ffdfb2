package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
)

// ComponentInfo is the snapshot of one component.
type ComponentInfo struct {
	Name    string                     `json:"name"`
	Type    string                     `json:"type,omitempty"`
	Details string                     `json:"details,omitempty"`
	State   component.State            `json:"state"`
	Health  observability.HealthStatus `json:"health"`
}

// ServiceInfo is the snapshot of one service registration.
type ServiceInfo struct {
	Name      string `json:"name"`
	Singleton bool   `json:"singleton"`
	Factory   bool   `json:"factory"`
	Cached    bool   `json:"cached"`
}

// Snapshot describes the application at a point in time.
type Snapshot struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	InstanceID      string          `json:"instance_id"`
	State           State           `json:"state"`
	StartupDuration time.Duration   `json:"startup_duration"`
	Components      []ComponentInfo `json:"components"`
	Services        []ServiceInfo   `json:"services"`
}

// Snapshot collects component states, descriptions and health together
// with every service registration.
func (a *App) Snapshot(ctx context.Context) Snapshot {
	a.mu.RLock()
	startedAt := a.startedAt
	a.mu.RUnlock()

	s := Snapshot{
		Name:       a.name,
		Version:    a.version,
		InstanceID: a.id,
		State:      a.State(),
	}
	if !startedAt.IsZero() {
		s.StartupDuration = time.Since(startedAt)
	}

	for _, c := range a.components.All() {
		info := ComponentInfo{
			Name:   c.Name(),
			Type:   "component",
			State:  c.State(),
			Health: c.Health(ctx).Status,
		}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				info.Name = desc.Name
			}
			if desc.Type != "" {
				info.Type = desc.Type
			}
			info.Details = desc.Details
		}
		s.Components = append(s.Components, info)
	}

	for _, r := range a.container.Registrations() {
		s.Services = append(s.Services, ServiceInfo{
			Name:      r.Name,
			Singleton: r.Singleton,
			Factory:   r.Factory,
			Cached:    r.Cached,
		})
	}
	return s
}

// Fields returns the snapshot as log fields.
func (s Snapshot) Fields() map[string]interface{} {
	healthy := 0
	for _, c := range s.Components {
		if c.Health == observability.HealthStatusUp {
			healthy++
		}
	}
	return map[string]interface{}{
		"version":            s.Version,
		logger.FieldState:    s.State.String(),
		logger.FieldDuration: s.StartupDuration.String(),
		"components":         len(s.Components),
		"components_healthy": healthy,
		"services":           len(s.Services),
	}
}

// Write prints the snapshot as a tree.
func (s Snapshot) Write(w io.Writer) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs (%s)\n\n",
		s.Name, s.Version, s.StartupDuration.Seconds(), s.InstanceID)

	fmt.Fprintf(w, "📦 Components\n")
	if len(s.Components) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n")
	}
	healthy := 0
	for i, c := range s.Components {
		details := ""
		if c.Details != "" {
			details = ": " + c.Details
		}
		fmt.Fprintf(w, "   %s %s %s [%s] (%s)%s\n",
			treePrefix(i, len(s.Components)), healthIcon(c.Health), c.Name, c.Type,
			strings.ToLower(c.State.String()), details)
		if c.Health == observability.HealthStatusUp {
			healthy++
		}
	}
	if total := len(s.Components); total > 0 {
		fmt.Fprintf(w, "\n")
		if healthy == total {
			fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n", healthy, total)
		} else {
			fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n", healthy, total)
		}
	}

	if len(s.Services) > 0 {
		fmt.Fprintf(w, "\n⚙️  Services (%d)\n", len(s.Services))
		for i, svc := range s.Services {
			fmt.Fprintf(w, "   %s %s %s\n", treePrefix(i, len(s.Services)), serviceIcon(svc), svc.Name)
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	case observability.HealthStatusDown:
		return "❌"
	default:
		return "❓"
	}
}

func serviceIcon(svc ServiceInfo) string {
	switch {
	case svc.Cached:
		return "✅"
	case svc.Factory:
		return "⚡"
	default:
		return "⏸️"
	}
}
