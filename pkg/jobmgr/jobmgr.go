// Package jobmgr runs named background jobs with cancellation and an
// in-memory view of what is currently active. A job is any function that
// works until its context ends.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Manager tracks running jobs by name. Names are unique; starting a second
// job under a running name fails.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]context.CancelFunc
	ctx  context.Context
}

// New returns a manager whose jobs inherit ctx: when it ends, every job's
// context ends with it.
func New(ctx context.Context) *Manager {
	return &Manager{
		jobs: make(map[string]context.CancelFunc),
		ctx:  ctx,
	}
}

// Start runs a job in its own goroutine and returns immediately. The job is
// untracked automatically when it returns.
func (m *Manager) Start(name string, run func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job %q is already running", name)
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.jobs[name] = cancel
	m.mu.Unlock()

	go func() {
		log.Debug().Str("job", name).Msg("job started")
		if err := run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("job", name).Msg("job failed")
		} else {
			log.Debug().Str("job", name).Msg("job finished")
		}

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
		cancel()
	}()
	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q is not running", name)
	}
	cancel()
	delete(m.jobs, name)
	return nil
}

// Active returns the names of running jobs, sorted.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
