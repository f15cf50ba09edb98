// Package gcs implements the Google Cloud Storage backend. Unlike
// S3, the GCS API supports conditional creation, so PutIfAbsent here
// is atomic rather than check-then-put.
package gcs

import (
	"context"
	"io/ioutil"
	"strings"

	gcsStorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/storage"
)

const defaultPageSize = 1000

// Option for the GCS store
type Option func(*gcs)

// Prefix sets the key-space path prefix inside the bucket
func Prefix(prefix string) Option {
	return func(g *gcs) {
		g.prefix = prefix
	}
}

// PageSize sets the listing page size
func PageSize(n int) Option {
	return func(g *gcs) {
		if n > 0 {
			g.pageSize = n
		}
	}
}

// New creates a GCS backed store. Credentials are resolved by the
// client library (GOOGLE_APPLICATION_CREDENTIALS or instance
// metadata).
func New(ctx context.Context, bucket string, opts ...Option) (storage.Store, error) {
	g := &gcs{bucket: bucket, pageSize: defaultPageSize}
	for _, apply := range opts {
		apply(g)
	}
	var err error
	g.readOnlyClient, err = gcsStorage.NewClient(ctx, option.WithScopes(gcsStorage.ScopeReadOnly))
	if err != nil {
		return nil, err
	}
	g.client, err = gcsStorage.NewClient(ctx, option.WithScopes(gcsStorage.ScopeFullControl))
	if err != nil {
		return nil, err
	}
	return g, nil
}

type gcs struct {
	client         *gcsStorage.Client
	readOnlyClient *gcsStorage.Client
	bucket         string
	prefix         string
	pageSize       int
}

func (g *gcs) String() string {
	return "gcs://" + g.bucket + "/" + g.prefix
}

func (g *gcs) path(key string) string {
	return g.prefix + key
}

func (g *gcs) Has(ctx context.Context, key string) (bool, error) {
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(g.path(key)).Attrs(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *gcs) Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error) {
	rdr, err := g.readOnlyClient.Bucket(g.bucket).Object(g.path(key)).NewReader(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return bytebuf.Buffer{}, false, nil
		}
		return bytebuf.Buffer{}, false, err
	}
	b, err := ioutil.ReadAll(rdr)
	if err != nil {
		_ = rdr.Close()
		return bytebuf.Buffer{}, false, err
	}
	if err = rdr.Close(); err != nil {
		return bytebuf.Buffer{}, false, err
	}
	return bytebuf.Wrap(b), true, nil
}

func (g *gcs) Put(ctx context.Context, key string, data bytebuf.Buffer) error {
	wr := g.client.Bucket(g.bucket).Object(g.path(key)).NewWriter(ctx)
	if _, err := data.WriteTo(wr); err != nil {
		return err
	}
	return wr.Close()
}

func (g *gcs) PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error {
	obj := g.client.Bucket(g.bucket).Object(g.path(key))
	wr := obj.If(gcsStorage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := data.WriteTo(wr); err != nil {
		return err
	}
	err := wr.Close()
	if isPreconditionFailed(err) {
		// the object exists; that is exactly what we wanted
		return nil
	}
	return err
}

func (g *gcs) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(g.path(key)).Delete(ctx)
	if err == gcsStorage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (g *gcs) Keys(ctx context.Context) *storage.KeyIterator {
	return storage.NewKeyIterator(func(ctx context.Context, token string) ([]string, string, error) {
		it := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: g.prefix})
		pager := iterator.NewPager(it, g.pageSize, token)

		var attrs []*gcsStorage.ObjectAttrs
		next, err := pager.NextPage(&attrs)
		if err != nil {
			return nil, "", err
		}

		keys := make([]string, 0, len(attrs))
		for _, a := range attrs {
			key := strings.TrimPrefix(a.Name, g.prefix)
			if key != "" {
				keys = append(keys, key)
			}
		}
		return keys, next, nil
	})
}

func isPreconditionFailed(err error) bool {
	gerr, ok := err.(*googleapi.Error)
	return ok && gerr.Code == 412
}
