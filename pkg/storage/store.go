package storage

import (
	"context"

	"github.com/scode/shastity/pkg/bytebuf"
)

// Store implementations persist opaque blobs under string keys.
//
// Typically this is something object-store-like. Examples are S3,
// GCS, local FS, or an in-process map. Implementations are assumed to
// be fairly simple; retry policy and caching belong to callers.
//
// Keys are either content addresses (hex digests of block data) or
// logical names such as manifest names. For content-addressed keys,
// callers must never reuse a key for different content: PutIfAbsent
// relies on it.
type Store interface {
	String() string

	// Has reports key existence. Absence is not an error.
	Has(ctx context.Context, key string) (bool, error)

	// Get fetches a blob. An absent key yields (zero, false, nil):
	// absence is a normal lookup outcome, not an error. Note that the
	// empty blob is present, not absent.
	Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error)

	// Put creates or replaces the blob at key.
	Put(ctx context.Context, key string, data bytebuf.Buffer) error

	// PutIfAbsent creates the blob only if key does not exist; an
	// existing key is a no-op, not an error. This is the dedup write
	// path. Remote backends implement it as check-then-put and accept
	// the benign race on identical content.
	PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error

	// Delete removes the blob at key; absent keys are a no-op.
	Delete(ctx context.Context, key string) error

	// Keys begins a listing pass over every key in the store. Backends
	// with paginated listing APIs fetch pages as the iterator is
	// consumed.
	Keys(ctx context.Context) *KeyIterator
}

// AllKeys drains a fresh listing pass into a slice. Intended for
// small stores and tests; production listings should consume the
// iterator directly.
func AllKeys(ctx context.Context, s Store) ([]string, error) {
	var keys []string
	it := s.Keys(ctx)
	for {
		key, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return keys, nil
		}
		keys = append(keys, key)
	}
}
