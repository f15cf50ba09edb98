package localfs

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB, opts ...Option) storage.Store {
	t.Helper()

	bs := New(afero.NewMemMapFs(), opts...)
	ctx := context.Background()
	require.NoError(t, bs.Put(ctx, "sixteentons", bytebuf.New([]byte("this is the text"))))
	require.NoError(t, bs.Put(ctx, "seventeentons", bytebuf.New([]byte("this is the text for another thing"))))
	return bs
}

func TestHas(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	has, err := bs.Has(ctx, "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "fifteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	b, found, err := bs.Get(ctx, "sixteentons")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "this is the text", string(b.Bytes()))

	_, found, err = bs.Get(ctx, "fifteentons")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPut(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "eighteentons", bytebuf.New([]byte("here we go once again"))))

	b, found, err := bs.Get(ctx, "eighteentons")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "here we go once again", string(b.Bytes()))

	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestPutIfAbsent(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.PutIfAbsent(ctx, "sixteentons", bytebuf.New([]byte("imposter"))))

	b, _, err := bs.Get(ctx, "sixteentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text", string(b.Bytes()))

	require.NoError(t, bs.PutIfAbsent(ctx, "nineteentons", bytebuf.New([]byte("fresh"))))
	has, err := bs.Has(ctx, "nineteentons")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Delete(ctx, "seventeentons"))
	keys, err := storage.AllKeys(ctx, bs)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	// deleting again is a no-op
	require.NoError(t, bs.Delete(ctx, "seventeentons"))
}

func TestKeysPagination(t *testing.T) {
	bs := New(afero.NewMemMapFs(), PageSize(3))
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
