package bytebuf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scode/shastity/internal/rand"
	"github.com/scode/shastity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopies(t *testing.T) {
	src := []byte("sixteentons")
	b := New(src)
	src[0] = 'X'

	assert.Equal(t, []byte("sixteentons"), b.Bytes())
}

func TestWrapAliases(t *testing.T) {
	src := []byte("seventeentons")
	b := Wrap(src)

	assert.Equal(t, []byte("seventeentons"), b.Bytes())
	assert.Equal(t, len(src), b.Len())
}

func TestBytesReturnsCopy(t *testing.T) {
	b := New([]byte("abc"))
	out := b.Bytes()
	out[0] = 'X'

	assert.Equal(t, []byte("abc"), b.Bytes())
}

func TestHexRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 15, 64, 1024} {
		raw := rand.Bytes(n)
		b := New(raw)

		h := b.Hex()
		assert.Zero(t, len(h)%2)
		assert.Equal(t, strings.ToLower(h), h)

		back, err := FromHex(h)
		require.NoError(t, err)
		assert.True(t, b.Equal(back))
	}
}

func TestFromHexRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"a",     // odd length
		"abg1",  // non-hex character
		"AB",    // uppercase is not canonical
		"0x00",  // prefix junk
		"12 34", // whitespace
	} {
		_, err := FromHex(s)
		require.Error(t, err, "input %q", s)
		assert.True(t, errors.Is(err, ErrInvalidEncoding))
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "påth/with spaces", "日本語"} {
		b, err := FromText(s)
		require.NoError(t, err)

		back, err := b.Text()
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	b := New([]byte{0xff, 0xfe})
	_, err := b.Text()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodec))

	_, err = FromText(string([]byte{0xff, 0xfe}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodec))
}

func TestEqualByContent(t *testing.T) {
	a := New([]byte("same"))
	b := Wrap([]byte("same"))
	c := New([]byte("other"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, Buffer{}.Equal(New(nil)))
}

func TestWriteTo(t *testing.T) {
	b := New([]byte("stream me"))
	var sink bytes.Buffer

	n, err := b.WriteTo(&sink)
	require.NoError(t, err)
	assert.EqualValues(t, b.Len(), n)
	assert.Equal(t, "stream me", sink.String())
}
