package commstore

import (
	"context"
	"sync"

	"github.com/haivivi/botcomm/pkg/comm"
)

// Memory is an in-memory Store implementation. It is safe for concurrent
// use and intended primarily for testing.
type Memory struct {
	mu      sync.RWMutex
	configs map[string]comm.CommConfig   // by public ID
	history map[string][]comm.ChatMessage // by internal ID
}

var _ Store = (*Memory)(nil)

// NewMemory creates a new in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		configs: make(map[string]comm.CommConfig),
		history: make(map[string][]comm.ChatMessage),
	}
}

func (m *Memory) LoadConfig(_ context.Context, publicID string) (*comm.CommConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[publicID]
	if !ok {
		return nil, comm.ErrNotFound
	}
	cp := cfg
	return &cp, nil
}

func (m *Memory) LoadHistory(_ context.Context, commID string) ([]comm.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.history[commID]
	out := make([]comm.ChatMessage, len(src))
	copy(out, src)
	return out, nil
}

func (m *Memory) SaveConfig(_ context.Context, cfg *comm.CommConfig) error {
	m.mu.Lock()
	m.configs[cfg.PublicID] = *cfg
	m.mu.Unlock()
	return nil
}

func (m *Memory) AppendMessages(_ context.Context, msgs []comm.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	commID := msgs[0].CommID
	m.mu.Lock()
	m.history[commID] = append(m.history[commID], msgs...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Configs(_ context.Context) ([]*comm.CommConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgs := make([]*comm.CommConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		cp := cfg
		cfgs = append(cfgs, &cp)
	}
	return cfgs, nil
}

func (m *Memory) Close() error { return nil }
