package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/scode/shastity/internal/rand"
	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/hasher"
	"github.com/scode/shastity/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAbsent(t *testing.T) {
	bs := New()

	_, found, err := bs.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutGet(t *testing.T) {
	bs := New()
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "key", bytebuf.New([]byte("value"))))

	b, found, err := bs.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value"), b.Bytes())
}

func TestEmptyBlobIsNotAbsent(t *testing.T) {
	bs := New()
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "key", bytebuf.Buffer{}))

	b, found, err := bs.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Zero(t, b.Len())

	has, err := bs.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasBeforeAndAfterPut(t *testing.T) {
	bs := New()
	ctx := context.Background()

	has, err := bs.Has(ctx, "sixteentons")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, bs.Put(ctx, "sixteentons", bytebuf.New([]byte("this is the text"))))

	has, err = bs.Has(ctx, "sixteentons")
	require.NoError(t, err)
	require.True(t, has)
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	bs := New()
	require.NoError(t, bs.Delete(context.Background(), "never-put"))
}

func TestDelete(t *testing.T) {
	bs := New()
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "key", bytebuf.New([]byte("v"))))
	require.NoError(t, bs.Delete(ctx, "key"))

	has, err := bs.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPutIfAbsentDedup(t *testing.T) {
	bs := New()
	ctx := context.Background()

	content := bytebuf.New(rand.Bytes(512))
	key := hasher.Digest(content)

	require.NoError(t, bs.PutIfAbsent(ctx, key, content))
	require.NoError(t, bs.PutIfAbsent(ctx, key, content))

	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	b, found, err := bs.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, content.Equal(b))
}

func TestPutIfAbsentDoesNotClobber(t *testing.T) {
	bs := New()
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "key", bytebuf.New([]byte("original"))))
	require.NoError(t, bs.PutIfAbsent(ctx, "key", bytebuf.New([]byte("imposter"))))

	b, _, err := bs.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), b.Bytes())
}

func TestKeys(t *testing.T) {
	bs := New()
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "key1", bytebuf.New([]byte("a"))))
	require.NoError(t, bs.Put(ctx, "key2", bytebuf.New([]byte("b"))))

	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key1", "key2"}, keys)
}

func TestKeysPagination(t *testing.T) {
	bs := New(PageSize(3))
	ctx := context.Background()

	want := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%02d", i)
		want = append(want, key)
		require.NoError(t, bs.Put(ctx, key, bytebuf.New([]byte{byte(i)})))
	}

	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, keys)
}

func TestKeysSinglePass(t *testing.T) {
	bs := New(PageSize(2))
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, bs.Put(ctx, k, bytebuf.New([]byte(k))))
	}

	it := bs.Keys(ctx)
	var got []string
	for {
		k, ok, err := it.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	// exhausted iterators stay exhausted
	_, ok, err := it.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentPutIfAbsent(t *testing.T) {
	bs := New()
	ctx := context.Background()

	content := bytebuf.New(rand.Bytes(128))
	key := hasher.Digest(content)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bs.PutIfAbsent(ctx, key, content)
		}()
	}
	wg.Wait()

	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
