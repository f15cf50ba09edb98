// Package metadata defines the per-entry metadata recorded in
// manifests and its canonical string form.
//
// The manifest layer treats metadata as an opaque string; this
// package is the one place that knows its shape. The string form is
// `<kind>~<detail>`: kind is a single letter, detail is the
// modification time in nanoseconds since the Unix epoch for regular
// files and directories, the link target for symlinks, and empty for
// skipped entries. The form is part of the stored format: two
// logically identical entries must stringify identically or
// deduplication of manifests breaks.
//
// Ownership metadata (uid/gid) is a known gap, deliberately not yet
// part of the format.
package metadata

import (
	"strconv"
	"strings"
	"time"

	"github.com/scode/shastity/pkg/errors"
)

// ErrInvalidMetadata indicates a metadata string that does not parse.
// Stored manifests carrying one are corrupt or from an incompatible
// version.
var ErrInvalidMetadata = errors.New("invalid metadata")

// Kind discriminates directory entries.
type Kind string

const (
	// KindRegular is a regular file; manifests record its mtime and
	// block hashes.
	KindRegular Kind = "f"

	// KindDir is a directory; manifests record its mtime and the key
	// of its sub-manifest.
	KindDir Kind = "d"

	// KindSymlink is a symbolic link; manifests record its target,
	// never following it.
	KindSymlink Kind = "l"

	// KindOther marks entries the walker declines to handle (devices,
	// sockets, fifos). Recorded by name only; content is never read.
	KindOther Kind = "o"
)

// Metadata for one manifest entry.
type Metadata struct {
	Kind   Kind
	Mtime  time.Time // regular and dir only
	Target string    // symlink only
}

// Regular describes a regular file.
func Regular(mtime time.Time) Metadata {
	return Metadata{Kind: KindRegular, Mtime: mtime}
}

// Dir describes a directory.
func Dir(mtime time.Time) Metadata {
	return Metadata{Kind: KindDir, Mtime: mtime}
}

// Symlink describes a symbolic link with its target path.
func Symlink(target string) Metadata {
	return Metadata{Kind: KindSymlink, Target: target}
}

// Other describes an entry recorded by name only.
func Other() Metadata {
	return Metadata{Kind: KindOther}
}

// String renders the canonical form.
func (m Metadata) String() string {
	switch m.Kind {
	case KindRegular, KindDir:
		return string(m.Kind) + "~" + strconv.FormatInt(m.Mtime.UnixNano(), 10)
	case KindSymlink:
		return string(m.Kind) + "~" + m.Target
	default:
		return string(m.Kind) + "~"
	}
}

// Parse is the inverse of String.
func Parse(s string) (Metadata, error) {
	idx := strings.IndexByte(s, '~')
	if idx < 0 {
		return Metadata{}, ErrInvalidMetadata
	}
	kind, detail := Kind(s[:idx]), s[idx+1:]
	switch kind {
	case KindRegular, KindDir:
		ns, err := strconv.ParseInt(detail, 10, 64)
		if err != nil {
			return Metadata{}, ErrInvalidMetadata.Wrap(err)
		}
		return Metadata{Kind: kind, Mtime: time.Unix(0, ns).UTC()}, nil
	case KindSymlink:
		return Metadata{Kind: kind, Target: detail}, nil
	case KindOther:
		if detail != "" {
			return Metadata{}, ErrInvalidMetadata
		}
		return Metadata{Kind: kind}, nil
	default:
		return Metadata{}, ErrInvalidMetadata
	}
}

// Equal compares by meaning: mtimes compare as instants regardless of
// location.
func (m Metadata) Equal(o Metadata) bool {
	return m.Kind == o.Kind && m.Mtime.Equal(o.Mtime) && m.Target == o.Target
}
