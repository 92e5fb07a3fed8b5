package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/chart"
)

// Memory keeps charts in a map.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record), now: time.Now}
}

// Save stores c under a new id.
func (m *Memory) Save(ctx context.Context, c chart.Chart) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	id := NewID()
	m.mu.Lock()
	m.records[id] = Record{ID: id, Chart: c, CreatedAt: m.now().UTC()}
	m.mu.Unlock()
	return id, nil
}

// Get loads a chart.
func (m *Memory) Get(ctx context.Context, id string) (*Record, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return &rec, nil
}

// Delete removes a chart.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored charts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close does nothing.
func (m *Memory) Close(ctx context.Context) error { return nil }

var _ Store = (*Memory)(nil)
