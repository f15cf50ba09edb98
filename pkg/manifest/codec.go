package manifest

import (
	"strings"
)

// The escape whitelist is part of the on-disk format. Widening or
// narrowing it never corrupts old manifests, but it changes the bytes
// produced for equal entries and therefore defeats deduplication
// against data written under the old whitelist. Version any change.
func plain(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '/' || c == '_' || c == '.' || c == '~' || c == '-':
		return true
	}
	return false
}

const hexdigits = "0123456789abcdef"

// Escape renders s so it can live in space-separated manifest lines:
// whitelisted bytes pass through, every other byte of the UTF-8
// encoding becomes '%' plus two lowercase hex digits.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if plain(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexdigits[c>>4])
		b.WriteByte(hexdigits[c&0x0f])
	}
	return b.String()
}

// Unescape is the exact inverse of Escape. A string ending mid-escape
// fails with ErrTruncatedEscape; a '%' not followed by two lowercase
// hex digits fails with ErrInvalidEscape.
func Unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+2 >= len(s) {
			return "", ErrTruncatedEscape
		}
		hi := unhex(s[i+1])
		lo := unhex(s[i+2])
		if hi < 0 || lo < 0 {
			return "", ErrInvalidEscape
		}
		b.WriteByte(byte(hi<<4 | lo))
		i += 3
	}
	return b.String(), nil
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

// EncodeEntry renders one entry as a manifest line, without the
// trailing newline: escaped pathname, escaped metadata and the hash
// list joined by single spaces.
func EncodeEntry(e Entry) string {
	parts := make([]string, 0, 2+len(e.Hashes))
	parts = append(parts, Escape(e.Path), Escape(e.Meta))
	parts = append(parts, e.Hashes...)
	return strings.Join(parts, " ")
}

// DecodeEntry parses one manifest line. Fewer than two fields, or an
// empty field produced by doubled or trailing separators, fail with
// ErrMalformedEntry.
func DecodeEntry(line string) (Entry, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 2 {
		return Entry{}, ErrMalformedEntry
	}
	for _, f := range fields[1:] {
		if f == "" {
			return Entry{}, ErrMalformedEntry
		}
	}
	path, err := Unescape(fields[0])
	if err != nil {
		return Entry{}, err
	}
	meta, err := Unescape(fields[1])
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Path: path, Meta: meta}
	if len(fields) > 2 {
		e.Hashes = append(e.Hashes, fields[2:]...)
	}
	return e, nil
}
