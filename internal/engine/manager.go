package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Manager coordinates the scheduled tasks, one per data source.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]Job),
	}
}

// Start launches the scheduling loop of a job.
func (m *Manager) Start(job Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.Name()]; exists {
		return fmt.Errorf("task %q already running", job.Name())
	}

	m.jobs[job.Name()] = job
	go job.Run()
	return nil
}

// Stop halts the named job and removes it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("task %q not found", name)
	}

	j.Stop()
	delete(m.jobs, name)
	return nil
}

// Refresh runs the named job now, in a new goroutine. A job already in
// flight skips the request.
func (m *Manager) Refresh(name string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("task %q not found", name)
	}
	go j.Trigger()
	return nil
}

// RefreshAll runs every job now.
func (m *Manager) RefreshAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, j := range m.jobs {
		go j.Trigger()
	}
}

// Subscribe returns a channel that receives events for the named job.
func (m *Manager) Subscribe(name string) (<-chan Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[name]
	if !ok {
		return nil, fmt.Errorf("task %q not found", name)
	}
	return j.Subscribe(), nil
}

// List returns summary info for all running jobs, sorted by name.
func (m *Manager) List() []TaskInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]TaskInfo, 0, len(m.jobs))
	for _, j := range m.jobs {
		infos = append(infos, j.Info())
	}
	sort.Slice(infos, func(i, k int) bool { return infos[i].Name < infos[k].Name })
	return infos
}

// StopAll halts and removes all running jobs.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, j := range m.jobs {
		j.Stop()
		delete(m.jobs, name)
	}
}
