// Package memory implements the in-process reference store. Every
// mutation runs as one critical section over the backing map, so
// PutIfAbsent is check-and-set atomic with respect to all other
// operations on the same handle. Unlike remote backends it is
// strictly consistent, which makes it the store of choice for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/storage"
)

const defaultPageSize = 1000

// Option for the memory store
type Option func(*memStore)

// PageSize overrides the listing page size. Mostly useful in tests
// exercising pagination.
func PageSize(n int) Option {
	return func(m *memStore) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) storage.Store {
	m := &memStore{
		blobs:    make(map[string]bytebuf.Buffer),
		pageSize: defaultPageSize,
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

type memStore struct {
	mu       sync.Mutex
	blobs    map[string]bytebuf.Buffer
	pageSize int
}

func (m *memStore) String() string {
	return "memory"
}

func (m *memStore) Has(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *memStore) Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return bytebuf.Buffer{}, false, nil
	}
	return b, true, nil
}

func (m *memStore) Put(ctx context.Context, key string, data bytebuf.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memStore) PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; ok {
		return nil
	}
	m.blobs[key] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Keys pages over a sorted view of the key set. Each page reflects
// the map contents at fetch time, matching the listing semantics of
// the remote backends.
func (m *memStore) Keys(ctx context.Context) *storage.KeyIterator {
	return storage.NewKeyIterator(func(_ context.Context, token string) ([]string, string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		sorted := make([]string, 0, len(m.blobs))
		for k := range m.blobs {
			if k > token {
				sorted = append(sorted, k)
			}
		}
		sort.Strings(sorted)

		if len(sorted) > m.pageSize {
			page := sorted[:m.pageSize]
			return page, page[len(page)-1], nil
		}
		return sorted, "", nil
	})
}
