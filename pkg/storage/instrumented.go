package storage

import (
	"context"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"github.com/scode/shastity/pkg/bytebuf"
)

// Instrument wraps a store so that every operation emits a debug log
// line and an opentracing span named storage.<store>.<op>.
func Instrument(tr opentracing.Tracer, logger *zap.Logger, store Store) Store {
	return &instrumentedStore{
		tr:    tr,
		store: store,
		logs:  logger.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store Store
	tr    opentracing.Tracer
	logs  *zap.Logger
}

func (i *instrumentedStore) opName(name string) string {
	return strings.Join([]string{"storage", i.store.String(), name}, ".")
}

func (i *instrumentedStore) spanFromContext(ctx context.Context, name string) opentracing.Span {
	parent := opentracing.SpanFromContext(ctx)
	if parent != nil {
		return i.tr.StartSpan(name, opentracing.ChildOf(parent.Context()))
	}
	return i.tr.StartSpan(name)
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	span := i.spanFromContext(ctx, i.opName("Has"))
	defer span.Finish()
	i.logs.Debug("storage has", zap.String("key", key))

	return i.store.Has(ctx, key)
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error) {
	span := i.spanFromContext(ctx, i.opName("Get"))
	defer span.Finish()
	i.logs.Debug("storage get", zap.String("key", key))

	return i.store.Get(ctx, key)
}

func (i *instrumentedStore) Put(ctx context.Context, key string, data bytebuf.Buffer) error {
	span := i.spanFromContext(ctx, i.opName("Put"))
	defer span.Finish()
	i.logs.Debug("storage put", zap.String("key", key), zap.Int("size", data.Len()))

	return i.store.Put(ctx, key, data)
}

func (i *instrumentedStore) PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error {
	span := i.spanFromContext(ctx, i.opName("PutIfAbsent"))
	defer span.Finish()
	i.logs.Debug("storage put-if-absent", zap.String("key", key), zap.Int("size", data.Len()))

	return i.store.PutIfAbsent(ctx, key, data)
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) error {
	span := i.spanFromContext(ctx, i.opName("Delete"))
	defer span.Finish()
	i.logs.Debug("storage delete", zap.String("key", key))

	return i.store.Delete(ctx, key)
}

func (i *instrumentedStore) Keys(ctx context.Context) *KeyIterator {
	span := i.spanFromContext(ctx, i.opName("Keys"))
	defer span.Finish()
	i.logs.Debug("storage keys")

	return i.store.Keys(ctx)
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}
