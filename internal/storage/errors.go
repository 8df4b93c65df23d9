package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a storage error per the storage-error taxonomy: short
// reads, malformed headers, bad encoding bytes, unknown page types, invalid
// serial types.
type Kind int

const (
	KindIO Kind = iota
	KindHeader
	KindPage
	KindVarint
	KindRecord
	KindSchema
	KindNotFound
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindHeader:
		return "header"
	case KindPage:
		return "page"
	case KindVarint:
		return "varint"
	case KindRecord:
		return "record"
	case KindSchema:
		return "schema"
	case KindNotFound:
		return "not_found"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the storage package's error shape: a Kind, the operation that
// failed, and the wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func wrapf(kind Kind, op string, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.Wrapf(err, format, args...)}
}

var (
	ErrInvalidMagic      = errors.New("invalid sqlite file magic")
	ErrShortRead         = errors.New("short read")
	ErrInvalidPageType   = errors.New("invalid page type")
	ErrInvalidVarint     = errors.New("invalid varint: input ends before the varint does")
	ErrInvalidSerialType = errors.New("invalid serial type")
	ErrTableNotFound     = errors.New("table not found")
	ErrIndexNotFound     = errors.New("index not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrOverflow          = errors.New("overflow pages are not supported")
	ErrWrongIndexColumn  = errors.New("index does not cover the requested column")
)
