// Package localfs implements a filesystem-backed store. It exists so
// a backup can target a mounted disk with the exact same contract as
// the remote backends, and doubles as a fixture-friendly backend in
// tests via afero's in-memory filesystem.
package localfs

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/storage"
)

const defaultPageSize = 1000

// Option for the localfs store
type Option func(*localFS)

// PageSize overrides the listing page size.
func PageSize(n int) Option {
	return func(l *localFS) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// New creates a store rooted at the given filesystem. A nil fs wires
// up the OS filesystem under .shastity/objects.
func New(fs afero.Fs, opts ...Option) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".shastity", "objects"))
	}
	l := &localFS{fs: fs, pageSize: defaultPageSize}
	for _, apply := range opts {
		apply(l)
	}
	return l
}

type localFS struct {
	fs       afero.Fs
	pageSize int
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error) {
	b, err := afero.ReadFile(l.fs, key)
	if err != nil {
		if os.IsNotExist(err) {
			return bytebuf.Buffer{}, false, nil
		}
		return bytebuf.Buffer{}, false, err
	}
	return bytebuf.Wrap(b), true, nil
}

func (l *localFS) Put(ctx context.Context, key string, data bytebuf.Buffer) error {
	return l.put(key, data, false)
}

// PutIfAbsent creates the file with O_EXCL, so concurrent writers on
// one filesystem never interleave: the loser of the race sees the
// existing file and treats it as success.
func (l *localFS) PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error {
	err := l.put(key, data, true)
	if err != nil && os.IsExist(err) {
		return nil
	}
	return err
}

func (l *localFS) put(key string, data bytebuf.Buffer, exclusive bool) error {
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC | os.O_SYNC
	if exclusive {
		flag = os.O_CREATE | os.O_WRONLY | os.O_EXCL | os.O_SYNC
	}
	target, err := l.fs.OpenFile(key, flag, 0600)
	if err != nil {
		return err
	}
	if _, err = data.WriteTo(target); err != nil {
		_ = target.Close()
		return err
	}
	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys walks the object tree and pages over the sorted result. Local
// object trees are expected to be of modest size; the pagination here
// preserves the iterator contract rather than saving memory.
func (l *localFS) Keys(ctx context.Context) *storage.KeyIterator {
	return storage.NewKeyIterator(func(_ context.Context, token string) ([]string, string, error) {
		const root = "."
		var keys []string
		err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if path == root || info.IsDir() {
				return nil
			}
			if key := filepath.ToSlash(path); key > token {
				keys = append(keys, key)
			}
			return nil
		})
		if err != nil {
			return nil, "", err
		}
		sort.Strings(keys)
		if len(keys) > l.pageSize {
			page := keys[:l.pageSize]
			return page, page[len(page)-1], nil
		}
		return keys, "", nil
	})
}
