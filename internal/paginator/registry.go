package paginator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Registry maps a rendered message ID to its live pager. Entries carry a TTL
// matching the lifetime of the message's buttons; expired entries are dropped
// lazily on lookup and by the periodic sweep, so the map stays bounded by
// recent activity instead of growing for the life of the process.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	ttl     time.Duration
	now     func() time.Time
}

type registryEntry struct {
	pager     Pager
	expiresAt time.Time
}

// NewRegistry returns a registry whose entries live for ttl after
// registration.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Register binds a pager to a message ID, replacing any previous binding.
func (r *Registry) Register(messageID string, p Pager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[messageID] = registryEntry{pager: p, expiresAt: r.now().Add(r.ttl)}
}

// Get looks up the pager for a message. A miss is an expected case: the
// entry expired, or the process restarted since the message was sent.
func (r *Registry) Get(messageID string) (Pager, bool) {
	r.mu.RLock()
	e, ok := r.entries[messageID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !r.now().Before(e.expiresAt) {
		r.mu.Lock()
		delete(r.entries, messageID)
		r.mu.Unlock()
		return nil, false
	}
	return e.pager, true
}

// Len reports the number of live entries, counting not-yet-swept expired ones.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	dropped := 0
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
			dropped++
		}
	}
	return dropped
}

// Run prunes expired entries on an interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Debug().Int("dropped", n).Msg("swept expired paginators")
			}
		}
	}
}
