package storage

import "context"

// FetchPage returns one page of keys. The token is the continuation
// token from the previous page, empty on the first call. It returns
// the keys of the page and the token for the next one; an empty next
// token means the listing is complete.
//
// This matches the page-oriented listing shape of object store APIs
// (marker/continuation-token based), so backends implement paging
// only and leave cursor state to the iterator.
type FetchPage func(ctx context.Context, token string) (keys []string, next string, err error)

// NewKeyIterator builds an iterator over a paginated listing.
func NewKeyIterator(fetch FetchPage) *KeyIterator {
	return &KeyIterator{fetch: fetch}
}

// KeyIterator is a forward-only, single-pass sequence of keys. It
// never materializes the full key set: each page is fetched as the
// previous one is consumed, and fetching may block on I/O. Restart by
// calling Store.Keys again.
type KeyIterator struct {
	fetch FetchPage
	page  []string
	token string
	done  bool
}

// Next returns the next key. The second result is false when the
// sequence is exhausted. After an error or exhaustion the iterator
// stays terminated.
func (it *KeyIterator) Next(ctx context.Context) (string, bool, error) {
	for len(it.page) == 0 {
		if it.done {
			return "", false, nil
		}
		keys, next, err := it.fetch(ctx, it.token)
		if err != nil {
			it.done = true
			return "", false, err
		}
		it.token = next
		if next == "" {
			it.done = true
		}
		if len(keys) == 0 {
			// A page with no keys terminates the listing even if the
			// backend claimed truncation; guards against looping on a
			// misbehaving backend.
			it.done = true
			return "", false, nil
		}
		it.page = keys
	}
	key := it.page[0]
	it.page = it.page[1:]
	return key, true, nil
}
