package persist

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/scode/shastity/pkg/errors"
	"github.com/scode/shastity/pkg/metadata"
)

var errReadlinkUnsupported = errors.New("filesystem does not support readlink")

// DirEntry is one classified entry of a directory level, as yielded
// by a Walker. Target is set for symlinks only.
type DirEntry struct {
	Name   string
	Kind   metadata.Kind
	Mtime  time.Time
	Target string
}

// Walker enumerates one directory level. Entries for special files
// the pipeline declines to read (devices, sockets, fifos) come back
// as KindOther; their content is never touched.
type Walker interface {
	Walk(path string) ([]DirEntry, error)
}

// NewWalker returns a Walker over an afero filesystem. Symlinks are
// classified without being followed; when the filesystem cannot
// report a link target the entry degrades to KindOther.
func NewWalker(fs afero.Fs) Walker {
	return &fsWalker{fs: fs}
}

type fsWalker struct {
	fs afero.Fs
}

func (w *fsWalker) Walk(path string) ([]DirEntry, error) {
	infos, err := afero.ReadDir(w.fs, path)
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		e := DirEntry{Name: info.Name(), Mtime: info.ModTime()}
		mode := info.Mode()
		switch {
		case mode.IsRegular():
			e.Kind = metadata.KindRegular
		case mode.IsDir():
			e.Kind = metadata.KindDir
		case mode&os.ModeSymlink != 0:
			target, err := w.readlink(filepath.Join(path, info.Name()))
			if err != nil {
				e.Kind = metadata.KindOther
			} else {
				e.Kind = metadata.KindSymlink
				e.Target = target
			}
		default:
			e.Kind = metadata.KindOther
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (w *fsWalker) readlink(name string) (string, error) {
	type readlinker interface {
		ReadlinkIfPossible(string) (string, error)
	}
	if lr, ok := w.fs.(readlinker); ok {
		return lr.ReadlinkIfPossible(name)
	}
	if _, ok := w.fs.(*afero.OsFs); ok {
		return os.Readlink(name)
	}
	return "", errReadlinkUnsupported
}
