package hook

import (
	"context"
	"sync"

	"github.com/pablof036/liblauncher/internal/logger"
)

// Manager keeps at most one script per hook type.
type Manager struct {
	mu      sync.RWMutex
	scripts map[Type]string
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{scripts: make(map[Type]string)}
}

// Add registers a script, replacing any previous one of the same type.
func (m *Manager) Add(h Hook) error {
	if h.Type == "" {
		return ErrHookTypeEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[h.Type] = h.Content
	return nil
}

// Remove drops the script of type t.
func (m *Manager) Remove(t Type) error {
	if t == "" {
		return ErrHookTypeEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scripts, t)
	return nil
}

// Has reports whether a script of type t is registered.
func (m *Manager) Has(t Type) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scripts[t]
	return ok
}

// Run executes the script of type t. Missing scripts are not an error.
func (m *Manager) Run(ctx context.Context, t Type, hc Context) error {
	m.mu.RLock()
	content, ok := m.scripts[t]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	logger.Debug("Running hook", logger.Fields{"hook": string(t), "version": hc.VersionID})
	return execute(ctx, t, content, hc)
}
