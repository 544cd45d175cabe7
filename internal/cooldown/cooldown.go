// Package cooldown enforces per-command, per-user invocation cooldowns.
// Entries expire lazily on read; a background sweep prunes the maps so they
// do not accumulate dead entries between invocations.
package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Tracker holds one user→expiry map per command name, so cooldowns never
// collide across commands. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	byCommand map[string]map[string]time.Time
	now       func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byCommand: make(map[string]map[string]time.Time),
		now:       time.Now,
	}
}

// CheckAndArm is the cooldown gate. If the user has no live entry for the
// command, it arms one expiring at now+d and returns 0. If a live entry
// exists, it returns the remaining time without touching the original expiry;
// repeated attempts during a cooldown never extend it.
func (t *Tracker) CheckAndArm(command, userID string, d time.Duration) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	users := t.byCommand[command]
	if users == nil {
		users = make(map[string]time.Time)
		t.byCommand[command] = users
	}

	if expiry, ok := users[userID]; ok && now.Before(expiry) {
		return expiry.Sub(now)
	}

	if d <= 0 {
		delete(users, userID)
		return 0
	}
	users[userID] = now.Add(d)
	return 0
}

// Reset drops the entry for (command, user), ending the cooldown early.
func (t *Tracker) Reset(command, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if users := t.byCommand[command]; users != nil {
		delete(users, userID)
	}
}

// Sweep removes expired entries and returns how many were dropped.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	dropped := 0
	for command, users := range t.byCommand {
		for userID, expiry := range users {
			if !now.Before(expiry) {
				delete(users, userID)
				dropped++
			}
		}
		if len(users) == 0 {
			delete(t.byCommand, command)
		}
	}
	return dropped
}

// Run prunes expired entries on an interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Sweep(); n > 0 {
				log.Debug().Int("dropped", n).Msg("swept expired cooldowns")
			}
		}
	}
}
