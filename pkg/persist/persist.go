// Package persist implements the backup write path: it walks a
// directory tree depth first, chunks regular files into fixed-size
// blocks stored under their content address, and assembles one
// manifest per directory level.
//
// Every block and every sub-manifest is written with PutIfAbsent
// keyed by its content hash, so identical blocks and identical
// subtrees are stored once across the whole backup and across runs.
// A failure anywhere in a subtree aborts the enclosing directory's
// persist call; a manifest key is only ever returned for a fully
// persisted subtree.
package persist

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/hasher"
	"github.com/scode/shastity/pkg/manifest"
	"github.com/scode/shastity/pkg/metadata"
	"github.com/scode/shastity/pkg/storage"
)

// DefaultBlockSize bounds block memory use per in-flight file.
const DefaultBlockSize = 1 << 20

// Option configures a Persister.
type Option func(*Persister)

// BlockSize sets the chunk size for regular files. Sizes smaller
// than one are ignored.
func BlockSize(n int) Option {
	return func(p *Persister) {
		if n > 0 {
			p.blockSize = n
		}
	}
}

// Logger sets the logger used for per-block and per-manifest debug
// output.
func Logger(l *zap.Logger) Option {
	return func(p *Persister) {
		if l != nil {
			p.logger = l
		}
	}
}

// Concurrency bounds how many sibling regular files persist in
// parallel within one directory level. The default of 1 keeps the
// walk fully sequential.
func Concurrency(n int) Option {
	return func(p *Persister) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithWalker replaces the default filesystem walker.
func WithWalker(w Walker) Option {
	return func(p *Persister) {
		p.walker = w
	}
}

// ManifestStore routes manifests to a separate store, leaving blocks
// in the main one. Without this option both share the main store.
func ManifestStore(s storage.Store) Option {
	return func(p *Persister) {
		p.manifests = s
	}
}

// Persister drives the backup write path against a pair of stores.
// It is safe for concurrent use as long as the stores are.
type Persister struct {
	blocks      storage.Store
	manifests   storage.Store
	fs          afero.Fs
	walker      Walker
	blockSize   int
	concurrency int
	logger      *zap.Logger
}

// New creates a Persister storing blocks (and by default manifests)
// in store, reading file content from fs.
func New(store storage.Store, fs afero.Fs, opts ...Option) *Persister {
	p := &Persister{
		blocks:      store,
		manifests:   store,
		fs:          fs,
		blockSize:   DefaultBlockSize,
		concurrency: 1,
		logger:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(p)
	}
	if p.walker == nil {
		p.walker = NewWalker(fs)
	}
	return p
}

// PersistFile chunks one regular file into blocks of at most the
// configured block size, stores each block under its content address
// and returns the hashes in block order. An empty file yields an
// empty list. The final short chunk is stored like any other; chunk
// boundaries are purely length based.
func (p *Persister) PersistFile(ctx context.Context, path string) ([]string, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hashes := []string{}
	buf := make([]byte, p.blockSize)
	for {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			block := bytebuf.New(buf[:n])
			key := hasher.Digest(block)
			if err := p.blocks.PutIfAbsent(ctx, key, block); err != nil {
				return nil, err
			}
			p.logger.Debug("stored block",
				zap.String("path", path),
				zap.String("key", key),
				zap.Int("size", n))
			hashes = append(hashes, key)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return hashes, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// PersistDir persists one directory level and, recursively, all
// levels below it. Regular entries record their ordered block
// hashes, directory entries the key of their sub-manifest, symlink
// entries their target, and other entries their name only. The
// level's manifest is stored under the content hash of its encoded
// bytes and that key is returned.
func (p *Persister) PersistDir(ctx context.Context, path string) (string, error) {
	entries, err := p.walker.Walk(path)
	if err != nil {
		return "", err
	}

	w := manifest.NewWriter()

	for _, e := range entries {
		switch e.Kind {
		case metadata.KindSymlink:
			err = w.AddObject(e.Name, metadata.Symlink(e.Target).String(), nil)
		case metadata.KindOther:
			err = w.AddObject(e.Name, metadata.Other().String(), nil)
		}
		if err != nil {
			return "", err
		}
	}

	// regular files possibly in parallel; the writer sorts entries at
	// freeze so arrival order does not matter
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, p.concurrency)
	for _, e := range entries {
		if e.Kind != metadata.KindRegular {
			continue
		}
		e := e
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			hashes, err := p.PersistFile(gctx, filepath.Join(path, e.Name))
			if err != nil {
				return err
			}
			return w.AddObject(e.Name, metadata.Regular(e.Mtime).String(), hashes)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.Kind != metadata.KindDir {
			continue
		}
		key, err := p.PersistDir(ctx, filepath.Join(path, e.Name))
		if err != nil {
			return "", err
		}
		if err := w.AddObject(e.Name, metadata.Dir(e.Mtime).String(), []string{key}); err != nil {
			return "", err
		}
	}

	w.Freeze()
	encoded := w.Encode()
	key := hasher.Digest(encoded)
	if err := p.manifests.PutIfAbsent(ctx, key, encoded); err != nil {
		return "", err
	}
	p.logger.Debug("stored manifest",
		zap.String("path", path),
		zap.String("key", key),
		zap.Int("entries", len(entries)))
	return key, nil
}

// Snapshot persists a tree and additionally stores the root manifest
// under the given logical name, so the backup can be found without
// knowing its content hash. It returns the root manifest's content
// address.
func (p *Persister) Snapshot(ctx context.Context, path, name string) (string, error) {
	key, err := p.PersistDir(ctx, path)
	if err != nil {
		return "", err
	}
	b, found, err := p.manifests.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !found {
		return "", manifest.ErrManifestNotFound
	}
	if err := p.manifests.Put(ctx, name, b); err != nil {
		return "", err
	}
	p.logger.Info("snapshot complete",
		zap.String("path", path),
		zap.String("name", name),
		zap.String("key", key))
	return key, nil
}
