package storage

import (
	"os"

	"github.com/pkg/errors"
)

// File is a seekable byte source over the database file. Reads are
// addressed by absolute offset so concurrent callers never race on a shared
// position.
type File struct {
	f *os.File
}

// OpenFile opens path for read-only access.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf(KindIO, "open", err, "open %s", path)
	}
	return &File{f: f}, nil
}

// ReadAt fills buf starting at the absolute offset pos. A short read is a
// storage error; no buffering is performed.
func (f *File) ReadAt(buf []byte, pos int64) error {
	n, err := f.f.ReadAt(buf, pos)
	if err != nil {
		return wrapf(KindIO, "read_at", errors.WithStack(err), "read %d bytes at offset %d", len(buf), pos)
	}
	if n != len(buf) {
		return wrapf(KindIO, "read_at", ErrShortRead, "read %d of %d bytes at offset %d", n, len(buf), pos)
	}
	return nil
}

// Close releases the underlying OS file handle.
func (f *File) Close() error {
	if err := f.f.Close(); err != nil {
		return wrap(KindIO, "close", err)
	}
	return nil
}
