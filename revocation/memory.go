package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const shardCount = 32 // power of two, so shard selection is a mask

// Memory is an in-process [Store] backed by a sharded map. Entries are
// distributed across shards by token-id hash so readers and writers of
// unrelated tokens never contend on the same lock, and each shard uses an
// RWMutex so the read-heavy validation path proceeds in parallel.
//
// When constructed with a positive sweep interval, a janitor goroutine
// reclaims expired entries in the background; Close stops it.
type Memory struct {
	shards [shardCount]revocationShard

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type revocationShard struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemory returns an in-memory store. A positive sweepInterval starts the
// background janitor; zero disables it, leaving reclamation to explicit
// SweepExpired calls (expired entries are already invisible to IsRevoked
// either way).
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for i := range m.shards {
		m.shards[i].entries = make(map[string]time.Time)
	}

	if sweepInterval > 0 {
		go m.janitor(sweepInterval)
	} else {
		close(m.done)
	}

	return m
}

func (m *Memory) shard(tokenID string) *revocationShard {
	return &m.shards[xxhash.Sum64String(tokenID)&(shardCount-1)]
}

// Revoke records tokenID until expiresAt. Entries already past expiry are
// not stored; re-revoking keeps the later expiry.
func (m *Memory) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return nil
	}

	s := m.shard(tokenID)
	s.mu.Lock()
	if current, ok := s.entries[tokenID]; !ok || expiresAt.After(current) {
		s.entries[tokenID] = expiresAt
	}
	s.mu.Unlock()

	return nil
}

// IsRevoked reports whether tokenID holds an unexpired entry. Expired
// entries read as absent even before the janitor removes them.
func (m *Memory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s := m.shard(tokenID)
	s.mu.RLock()
	expiresAt, ok := s.entries[tokenID]
	s.mu.RUnlock()

	return ok && expiresAt.After(time.Now()), nil
}

// SweepExpired removes entries past expiry, one shard at a time so
// foreground reads on other shards are never blocked.
func (m *Memory) SweepExpired(_ context.Context) (int, error) {
	now := time.Now()
	removed := 0

	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for tokenID, expiresAt := range s.entries {
			if !expiresAt.After(now) {
				delete(s.entries, tokenID)
				removed++
			}
		}
		s.mu.Unlock()
	}

	return removed, nil
}

// Close stops the janitor goroutine, if any. Safe to call more than once.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
	return nil
}

func (m *Memory) janitor(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = m.SweepExpired(context.Background())
		case <-m.stop:
			return
		}
	}
}
