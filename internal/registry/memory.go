package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is the default in-memory Store: a mutex-guarded map. Entries are
// never evicted for the lifetime of the process.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]JobState
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]JobState)}
}

func (m *Memory) Create(_ context.Context) (string, error) {
	id := "job_" + uuid.NewString()
	now := time.Now().UTC()

	m.mu.Lock()
	m.jobs[id] = JobState{
		ID:        id,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Unlock()

	return id, nil
}

func (m *Memory) Update(_ context.Context, id string, u Update) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.jobs[id]
	if !ok {
		return
	}
	m.jobs[id] = merge(state, u, time.Now().UTC())
}

func (m *Memory) Get(_ context.Context, id string) (JobState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.jobs[id]
	return state, ok
}
