package gcs

import (
	"context"
	"os"
	"testing"

	"github.com/scode/shastity/internal/rand"
	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the real GCS API. Needs application default credentials
// and a scratch bucket; skipped otherwise.
func TestGCSRoundTrip(t *testing.T) {
	bucket := os.Getenv("SHASTITY_TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("SHASTITY_TEST_GCS_BUCKET not set")
	}
	ctx := context.Background()

	bs, err := New(ctx, bucket, Prefix("shastity-test/"))
	require.NoError(t, err)

	key := rand.LetterString(16)
	content := bytebuf.New(rand.Bytes(256))

	require.NoError(t, bs.PutIfAbsent(ctx, key, content))
	defer func() {
		assert.NoError(t, bs.Delete(ctx, key))
	}()

	// second conditional put is a no-op, not an error
	require.NoError(t, bs.PutIfAbsent(ctx, key, content))

	b, found, err := bs.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, content.Equal(b))
}

func TestPathMapping(t *testing.T) {
	g := &gcs{bucket: "b", prefix: "pre/"}
	assert.Equal(t, "pre/abc", g.path("abc"))
	assert.Equal(t, "gcs://b/pre/", g.String())
}
