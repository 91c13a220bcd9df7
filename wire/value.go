package wire

import (
	"encoding/binary"
	"strconv"
)

// Value is a value argument for the put family, extension calls and misc
// argument pairs. It exists because the protocol has two encodings for
// values: arbitrary bytes, and a fixed 4-byte big-endian word used for
// counters. Which one applies is a property of the supplied value, not of
// the command, so callers pick it at construction time.
type Value struct {
	raw   []byte
	word  uint32
	fixed bool
}

// Bytes returns a Value carrying raw bytes. Empty and binary-unsafe
// content is legal; framing is purely length-prefixed.
func Bytes(p []byte) Value {
	return Value{raw: p}
}

// String returns a Value carrying the bytes of s.
func String(s string) Value {
	return Value{raw: []byte(s)}
}

// Int returns a Value carrying an integer. A non-negative integer below
// 2^32 is encoded as a fixed 4-byte big-endian word so the server can use
// it as a counter base; any other integer falls back to its decimal ASCII
// form. The threshold is part of the wire contract and must not change.
func Int(n int64) Value {
	if n >= 0 && n < 1<<32 {
		return Value{word: uint32(n), fixed: true}
	}
	return Value{raw: []byte(strconv.FormatInt(n, 10))}
}

// Len reports the encoded length in bytes.
func (v Value) Len() int {
	if v.fixed {
		return 4
	}
	return len(v.raw)
}

// append writes the encoded form of v to dst.
func (v Value) append(dst []byte) []byte {
	if v.fixed {
		return binary.BigEndian.AppendUint32(dst, v.word)
	}
	return append(dst, v.raw...)
}
