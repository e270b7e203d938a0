// Package store provides the in-process session store: product contexts
// keyed by session ID, expired after a TTL so long-running deployments do
// not grow without bound.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nutricheck/nutricheck/internal/domain/session"
)

const (
	DefaultTTL        = 12 * time.Hour
	DefaultMaxEntries = 10000
)

// SessionStore holds product contexts for the process lifetime, bounded by
// entry count and TTL. Entries are never updated in place; the only
// operations are insert-with-fresh-key and read.
type SessionStore struct {
	cache *expirable.LRU[session.ID, session.ProductContext]
}

func New(maxEntries int, ttl time.Duration) *SessionStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{
		cache: expirable.NewLRU[session.ID, session.ProductContext](maxEntries, nil, ttl),
	}
}

// Create stores a copy of the context under a fresh session ID. Fails only
// if the system cannot produce a UUID, which in practice never happens.
func (s *SessionStore) Create(_ context.Context, pc session.ProductContext) (session.ID, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	id := session.ID(raw.String())
	s.cache.Add(id, pc.Clone())
	return id, nil
}

// Get returns a copy of the stored context, so no caller can mutate what a
// later read observes.
func (s *SessionStore) Get(_ context.Context, id session.ID) (session.ProductContext, error) {
	pc, ok := s.cache.Get(id)
	if !ok {
		return session.ProductContext{}, session.ErrNotFound
	}
	return pc.Clone(), nil
}

// Len reports how many contexts are currently live. Used by health checks.
func (s *SessionStore) Len() int {
	return s.cache.Len()
}
