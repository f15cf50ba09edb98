// Package bytebuf implements the byte buffer value type passed
// between the store, manifest and persistence layers.
//
// A Buffer gives a byte sequence value semantics: equality is by
// content, and no holder of a Buffer may mutate the bytes it views.
// The safe constructor copies; Wrap trades the copy for an ownership
// contract with the caller.
package bytebuf

import (
	"bytes"
	"encoding/hex"
	"io"
	"unicode/utf8"

	"github.com/scode/shastity/pkg/errors"
)

var (
	// ErrInvalidEncoding indicates a malformed hex string: odd length or
	// characters outside the canonical lowercase hex alphabet.
	ErrInvalidEncoding = errors.New("invalid hex encoding")

	// ErrCodec indicates byte content that is not valid UTF-8.
	ErrCodec = errors.New("invalid character data")
)

// Buffer is an immutable-by-convention view of a byte sequence.
// The zero value is the empty buffer.
type Buffer struct {
	data []byte
}

// New copies p into a fresh Buffer. Later mutation of p does not
// affect the returned value.
func New(p []byte) Buffer {
	d := make([]byte, len(p))
	copy(d, p)
	return Buffer{data: d}
}

// Wrap creates a Buffer aliasing p without copying. The caller cedes
// ownership of p and must never modify it afterwards; this contract
// is not enforced at runtime.
func Wrap(p []byte) Buffer {
	return Buffer{data: p}
}

// FromHex decodes a canonical hex string as produced by Hex:
// even-length, lowercase. Anything else fails with ErrInvalidEncoding.
func FromHex(s string) (Buffer, error) {
	if len(s)%2 != 0 {
		return Buffer{}, ErrInvalidEncoding
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return Buffer{}, ErrInvalidEncoding
		}
	}
	d, err := hex.DecodeString(s)
	if err != nil {
		return Buffer{}, ErrInvalidEncoding.Wrap(err)
	}
	return Buffer{data: d}, nil
}

// FromText encodes a character string as UTF-8 bytes. Strings holding
// invalid UTF-8 fail with ErrCodec.
func FromText(s string) (Buffer, error) {
	if !utf8.ValidString(s) {
		return Buffer{}, ErrCodec
	}
	return Buffer{data: []byte(s)}, nil
}

// Len returns the number of bytes in the buffer.
func (b Buffer) Len() int {
	return len(b.data)
}

// Bytes returns a copy of the underlying bytes. The copy keeps the
// buffer itself immutable no matter what the caller does with the
// returned slice.
func (b Buffer) Bytes() []byte {
	d := make([]byte, len(b.data))
	copy(d, b.data)
	return d
}

// Hex returns the lowercase hex encoding of the buffer. The result
// always has even length.
func (b Buffer) Hex() string {
	return hex.EncodeToString(b.data)
}

// Text decodes the buffer as UTF-8. Invalid UTF-8 fails with
// ErrCodec.
func (b Buffer) Text() (string, error) {
	if !utf8.Valid(b.data) {
		return "", ErrCodec
	}
	return string(b.data), nil
}

// NewReader returns a reader over the buffer contents. Reading does
// not copy and cannot mutate the buffer.
func (b Buffer) NewReader() *bytes.Reader {
	return bytes.NewReader(b.data)
}

// WriteTo writes the buffer contents to w without copying.
func (b Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

// Equal reports content equality.
func (b Buffer) Equal(o Buffer) bool {
	return bytes.Equal(b.data, o.data)
}
