package wire

import "encoding/binary"

// Request encoders. Each function maps one argument shape to its exact
// byte sequence; they are pure and do no I/O. All multi-byte integers are
// big-endian regardless of the host.

// KV is one key/value argument pair for misc calls, and one record of a
// multi-get result.
type KV struct {
	Key   []byte
	Value Value
}

func appendCode(dst []byte, code OpCode) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(code))
}

// EncodeNoArg encodes a command that takes no arguments
// (iterinit, iternext, sync, vanish, rnum, size, stat).
func EncodeNoArg(code OpCode) []byte {
	return appendCode(make([]byte, 0, 2), code)
}

// EncodeKey encodes a command taking a single length-prefixed blob: a key
// for out/get/vsiz, a file path for copy, a parameter string for optimize.
func EncodeKey(code OpCode, key []byte) []byte {
	buf := appendCode(make([]byte, 0, 6+len(key)), code)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	return append(buf, key...)
}

// EncodeKeyValue encodes the put family: both lengths first, then key and
// value back to back.
func EncodeKeyValue(code OpCode, key []byte, value Value) []byte {
	buf := appendCode(make([]byte, 0, 10+len(key)+value.Len()), code)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(value.Len()))
	buf = append(buf, key...)
	return value.append(buf)
}

// EncodeShiftAppend encodes putshl: key/value plus the record width the
// server shifts the record to.
func EncodeShiftAppend(code OpCode, key []byte, value Value, width int32) []byte {
	buf := appendCode(make([]byte, 0, 14+len(key)+value.Len()), code)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(value.Len()))
	buf = binary.BigEndian.AppendUint32(buf, uint32(width))
	buf = append(buf, key...)
	return value.append(buf)
}

// EncodeKeyList encodes mget: a key count followed by each key with its
// own length prefix.
func EncodeKeyList(code OpCode, keys [][]byte) []byte {
	size := 6
	for _, k := range keys {
		size += 4 + len(k)
	}
	buf := appendCode(make([]byte, 0, size), code)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(k)))
		buf = append(buf, k...)
	}
	return buf
}

// EncodePrefixScan encodes fwmkeys: prefix plus the maximum number of
// keys to return (negative means no limit).
func EncodePrefixScan(code OpCode, prefix []byte, max int32) []byte {
	buf := appendCode(make([]byte, 0, 10+len(prefix)), code)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(prefix)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(max))
	return append(buf, prefix...)
}

// EncodeAddInt encodes addint with its signed 32-bit delta.
func EncodeAddInt(key []byte, delta int32) []byte {
	buf := appendCode(make([]byte, 0, 10+len(key)), OpAddInt)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(delta))
	return append(buf, key...)
}

// EncodeAddDouble encodes adddouble with the integral and fractional
// parts as separate 64-bit words.
func EncodeAddDouble(key []byte, integ, fract int64) []byte {
	buf := appendCode(make([]byte, 0, 22+len(key)), OpAddDouble)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(integ))
	buf = binary.BigEndian.AppendUint64(buf, uint64(fract))
	return append(buf, key...)
}

// EncodeRestore encodes restore: an update log path and the beginning
// timestamp in microseconds.
func EncodeRestore(path []byte, ts uint64) []byte {
	buf := appendCode(make([]byte, 0, 14+len(path)), OpRestore)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(path)))
	buf = binary.BigEndian.AppendUint64(buf, ts)
	return append(buf, path...)
}

// EncodeSetMaster encodes setmst with the replication master host and port.
func EncodeSetMaster(host []byte, port int32) []byte {
	buf := appendCode(make([]byte, 0, 10+len(host)), OpSetMst)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(host)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(port))
	return append(buf, host...)
}

// EncodeExt encodes a server-side extension call: function name, option
// flags (ExtLockRecord, ExtLockGlobal) and a key/value argument.
func EncodeExt(name []byte, opts int32, key []byte, value Value) []byte {
	buf := appendCode(make([]byte, 0, 18+len(name)+len(key)+value.Len()), OpExt)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(name)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(opts))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(key)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(value.Len()))
	buf = append(buf, name...)
	buf = append(buf, key...)
	return value.append(buf)
}

// EncodeMisc encodes a misc call. Each pair contributes two wire
// arguments, key then value, each with its own length prefix; the value
// half carries the same integer encoding optimization as put. Pass
// MiscNoUpdateLog in opts for the non-logging variant.
func EncodeMisc(name []byte, opts int32, pairs []KV) []byte {
	size := 14 + len(name)
	for _, p := range pairs {
		size += 8 + len(p.Key) + p.Value.Len()
	}
	buf := appendCode(make([]byte, 0, size), OpMisc)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(name)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(opts))
	buf = binary.BigEndian.AppendUint32(buf, uint32(2*len(pairs)))
	buf = append(buf, name...)
	for _, p := range pairs {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.Key)))
		buf = append(buf, p.Key...)
		buf = binary.BigEndian.AppendUint32(buf, uint32(p.Value.Len()))
		buf = p.Value.append(buf)
	}
	return buf
}
