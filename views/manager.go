// Package views assembles the dashboard's six page payloads from the derived
// analytics tables. Views hold no business logic of their own: every builder
// reads only the snapshot tables, the smoothed series and the correlation
// matrix handed to it.
package views

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"delivery-trends/analytics"
	"delivery-trends/trends"
)

// Inputs carries everything a view builder may read.
type Inputs struct {
	Snapshot *trends.Snapshot
	Smoothed trends.InterestSeries
	Matrix   analytics.CorrelationMatrix

	// UI control surface
	Window int
	Brand  string
	Region string
}

// BuilderFunc builds one view payload.
type BuilderFunc func(ctx context.Context, in Inputs) (any, error)

// Manager dispatches over the closed set of view identifiers.
type Manager struct {
	mu       sync.RWMutex
	builders map[string]BuilderFunc
}

// NewManager creates an empty view manager
func NewManager() *Manager {
	return &Manager{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder under a view identifier.
func (m *Manager) Register(id string, builder BuilderFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.builders[id] = builder
	fmt.Printf("📦 Registered view: %s\n", id)
}

// Build dispatches to the builder for id.
func (m *Manager) Build(ctx context.Context, id string, in Inputs) (any, error) {
	m.mu.RLock()
	builder, exists := m.builders[id]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("view %q not found", id)
	}
	return builder(ctx, in)
}

// Has reports whether a view identifier is registered.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.builders[id]
	return exists
}

// List returns the registered view identifiers in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.builders))
	for id := range m.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
