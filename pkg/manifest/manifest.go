// Package manifest implements the text encoding of backup manifests
// and the writer/reader pair that moves them in and out of a blob
// store.
//
// A manifest is a sorted sequence of (pathname, metadata, hash list)
// entries, one per line, percent-escaped so lines split cleanly on
// single spaces. Sorting happens at freeze/upload time, not at
// insertion: the writer accumulates in arrival order, then the
// compute-bound sort and the I/O-bound upload run as separate phases.
// Two writers fed the same entry set in any order produce
// byte-identical manifests, which is what makes manifest blobs
// themselves dedupable.
package manifest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/errors"
	"github.com/scode/shastity/pkg/storage"
)

var (
	// ErrTruncatedEscape indicates a manifest field ending in the
	// middle of a %xx escape.
	ErrTruncatedEscape = errors.New("truncated escape sequence")

	// ErrInvalidEscape indicates a % not followed by two lowercase hex
	// digits.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrMalformedEntry indicates a manifest line that does not parse.
	ErrMalformedEntry = errors.New("malformed manifest entry")

	// ErrAlreadyFrozen is returned when adding to a frozen writer: a
	// precondition violation by the caller, not a data error.
	ErrAlreadyFrozen = errors.New("manifest writer is frozen")

	// ErrDuplicatePath is returned when one writer is handed the same
	// pathname twice.
	ErrDuplicatePath = errors.New("duplicate pathname in manifest")

	// ErrManifestNotFound is returned by Read for an absent manifest
	// key.
	ErrManifestNotFound = errors.New("manifest not found")
)

// Entry is one manifest line: a pathname unique within its manifest,
// an opaque metadata string, and the ordered block hash list. The
// hash order encodes block sequence for regular files; directory
// entries carry their sub-manifest key as the sole hash and symlink
// or skipped entries carry none.
type Entry struct {
	Path   string
	Meta   string
	Hashes []string
}

// NewWriter creates an empty manifest writer.
func NewWriter() *Writer {
	return &Writer{seen: make(map[string]struct{})}
}

// Writer accumulates entries until frozen and uploads the canonical
// encoding as a single blob.
type Writer struct {
	mu      sync.Mutex
	entries []Entry
	seen    map[string]struct{}
	frozen  bool
}

// AddObject appends an entry. It fails with ErrAlreadyFrozen after
// Freeze and with ErrDuplicatePath when the pathname was added
// before. The hash slice is copied.
func (w *Writer) AddObject(path, meta string, hashes []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.frozen {
		return ErrAlreadyFrozen
	}
	if _, dup := w.seen[path]; dup {
		return ErrDuplicatePath
	}
	w.seen[path] = struct{}{}

	e := Entry{Path: path, Meta: meta}
	if len(hashes) > 0 {
		e.Hashes = make([]string, len(hashes))
		copy(e.Hashes, hashes)
	}
	w.entries = append(w.entries, e)
	return nil
}

// Freeze sorts the entries by pathname and makes the writer
// immutable. Re-freezing is a no-op.
func (w *Writer) Freeze() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.frozen {
		return
	}
	sortEntries(w.entries)
	w.frozen = true
}

// Encode returns the canonical manifest bytes: entries sorted by
// pathname, one encoded line each, newline-terminated. Encoding an
// unfrozen writer sorts a snapshot without freezing it.
func (w *Writer) Encode() bytebuf.Buffer {
	w.mu.Lock()
	entries := w.entries
	if !w.frozen {
		entries = make([]Entry, len(w.entries))
		copy(entries, w.entries)
		sortEntries(entries)
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(EncodeEntry(e))
		b.WriteByte('\n')
	}
	w.mu.Unlock()

	return bytebuf.Wrap([]byte(b.String()))
}

// Upload stores the canonical encoding under key with an
// unconditional put.
func (w *Writer) Upload(ctx context.Context, store storage.Store, key string) error {
	return store.Put(ctx, key, w.Encode())
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}

// Read fetches and decodes one manifest, returning its entries sorted
// by pathname. An absent key fails with ErrManifestNotFound; corrupt
// content fails with the codec errors.
func Read(ctx context.Context, store storage.Store, key string) ([]Entry, error) {
	b, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrManifestNotFound
	}
	text, err := b.Text()
	if err != nil {
		return nil, ErrMalformedEntry.Wrap(err)
	}

	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		// drop the element after the final newline; interior empty
		// lines stay and decode as malformed
		lines = lines[:n-1]
	}

	var entries []Entry
	for _, line := range lines {
		e, err := DecodeEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}
