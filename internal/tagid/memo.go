package tagid

import (
	"context"
	"sync"
)

// Memo caches resolutions, including failures, for the lifetime of one scan.
// The engine consults the resolver repeatedly for the same candidate as new
// contenders arrive under a shared key; memoizing keeps that to one service
// round trip per track.
type Memo struct {
	resolver Resolver

	mu      sync.Mutex
	matches map[Query]*Match
	misses  map[Query]error
}

var _ Resolver = (*Memo)(nil)

// NewMemo wraps a resolver with per-query memoization.
func NewMemo(resolver Resolver) *Memo {
	return &Memo{
		resolver: resolver,
		matches:  make(map[Query]*Match),
		misses:   make(map[Query]error),
	}
}

// Resolve returns the cached outcome for the query, consulting the wrapped
// resolver at most once per distinct query.
func (m *Memo) Resolve(ctx context.Context, query Query) (*Match, error) {
	m.mu.Lock()
	if match, ok := m.matches[query]; ok {
		m.mu.Unlock()
		return match, nil
	}
	if err, ok := m.misses[query]; ok {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	match, err := m.resolver.Resolve(ctx, query)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.misses[query] = err
		return nil, err
	}
	m.matches[query] = match
	return match, nil
}
