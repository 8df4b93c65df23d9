package storage

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// TextEncoding mirrors the database header's text-encoding field: 1 =
// UTF-8, 2 = UTF-16LE, 3 = UTF-16BE.
type TextEncoding int

const (
	UTF8 TextEncoding = iota + 1
	UTF16LE
	UTF16BE
)

// Record is the decoded form of a cell payload: an ordered list of Values.
type Record struct {
	Values []Value
}

// DecodeRecord decodes a cell payload: a VarInt header length H (inclusive
// of its own size), followed by serial-type VarInts until H bytes are
// consumed, followed by the packed column bodies decoded in order.
func DecodeRecord(payload []byte, enc TextEncoding) (Record, error) {
	headerLen, n, err := ReadVarint(payload)
	if err != nil {
		return Record{}, wrap(KindRecord, "decode_record_header_len", err)
	}
	if int(headerLen) > len(payload) || headerLen < int64(n) {
		return Record{}, wrap(KindRecord, "decode_record_header_len", ErrShortRead)
	}

	var serialTypes []int64
	pos := n
	for pos < int(headerLen) {
		st, sn, err := ReadVarint(payload[pos:])
		if err != nil {
			return Record{}, wrap(KindRecord, "decode_serial_type", err)
		}
		serialTypes = append(serialTypes, st)
		pos += sn
	}

	bodyPos := int(headerLen)
	values := make([]Value, 0, len(serialTypes))
	for _, st := range serialTypes {
		size, err := serialTypeSize(st)
		if err != nil {
			return Record{}, err
		}
		if bodyPos+size > len(payload) {
			return Record{}, wrap(KindRecord, "decode_column_body", ErrShortRead)
		}
		body := payload[bodyPos : bodyPos+size]
		v, err := decodeSerialValue(st, body, enc)
		if err != nil {
			return Record{}, err
		}
		values = append(values, v)
		bodyPos += size
	}

	return Record{Values: values}, nil
}

// serialTypeSize returns the body byte width for serial type n.
func serialTypeSize(n int64) (int, error) {
	switch {
	case n == 0:
		return 0, nil
	case n == 1:
		return 1, nil
	case n == 2:
		return 2, nil
	case n == 3:
		return 3, nil
	case n == 4:
		return 4, nil
	case n == 8, n == 9:
		return 0, nil
	case n >= 12 && n%2 == 0:
		return int((n - 12) / 2), nil
	case n >= 13 && n%2 == 1:
		return int((n - 13) / 2), nil
	default:
		return 0, wrapf(KindRecord, "serial_type_size", ErrInvalidSerialType, "serial type %d", n)
	}
}

func decodeSerialValue(n int64, body []byte, enc TextEncoding) (Value, error) {
	switch {
	case n == 0:
		return Null(), nil
	case n == 1:
		return Int(int64(int8(body[0]))), nil
	case n == 2:
		return Int(int64(int16(binary.BigEndian.Uint16(body)))), nil
	case n == 3:
		return Int(decodeInt24(body)), nil
	case n == 4:
		return Int(int64(int32(binary.BigEndian.Uint32(body)))), nil
	case n == 8:
		return Int(0), nil
	case n == 9:
		return Int(1), nil
	case n >= 12 && n%2 == 0:
		blob := make([]byte, len(body))
		copy(blob, body)
		return Blob(blob), nil
	case n >= 13 && n%2 == 1:
		s, err := decodeText(body, enc)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	default:
		return Value{}, wrapf(KindRecord, "decode_serial_value", ErrInvalidSerialType, "serial type %d", n)
	}
}

func decodeInt24(b []byte) int64 {
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	if b[0]&0x80 != 0 {
		v |= ^int32(0xffffff)
	}
	return int64(v)
}

// decodeText decodes a TEXT column body using the database's declared
// text encoding, falling back to raw UTF-8 bytes (the common case).
func decodeText(body []byte, enc TextEncoding) (string, error) {
	switch enc {
	case UTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(body)
		if err != nil {
			return "", wrap(KindRecord, "decode_text_utf16le", err)
		}
		return string(out), nil
	case UTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(body)
		if err != nil {
			return "", wrap(KindRecord, "decode_text_utf16be", err)
		}
		return string(out), nil
	default:
		return string(body), nil
	}
}
