package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
)

// Response decoding. Each function pulls exactly the bytes its shape
// declares from the stream, blocking across as many partial deliveries as
// it takes. Which functions apply to a response is fixed by the command
// that produced it; numeric widths are never inferred from payload length.

// Record is one key/value entry of a multi-get result.
type Record struct {
	Key   []byte
	Value []byte
}

// readFull fills buf from r, absorbing arbitrary delivery chunking, and
// maps stream faults to the error taxonomy.
func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return mapReadError(err)
	}
	return nil
}

func mapReadError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrClosed
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrTimeout
	}
	return &TransportError{Op: "read", Err: err}
}

// ReadStatus consumes the leading status byte. A non-zero status is the
// whole response: it returns a ServerError without reading any payload.
func ReadStatus(r io.Reader) error {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		return err
	}
	if b[0] != StatusOK {
		return &ServerError{Code: b[0]}
	}
	return nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadInt32 reads a fixed-width 32-bit result (vsiz, addint sum).
func ReadInt32(r io.Reader) (int32, error) {
	n, err := readUint32(r)
	return int32(n), err
}

// ReadUint64 reads a fixed-width 64-bit result (rnum, size).
func ReadUint64(r io.Reader) (uint64, error) {
	return readUint64(r)
}

// ReadInt64Pair reads the integral/fractional result of adddouble.
func ReadInt64Pair(r io.Reader) (integ, fract int64, err error) {
	a, err := readUint64(r)
	if err != nil {
		return 0, 0, err
	}
	b, err := readUint64(r)
	if err != nil {
		return 0, 0, err
	}
	return int64(a), int64(b), nil
}

// ReadBlob reads one length-prefixed blob. A declared length of zero is a
// legal empty blob and consumes nothing further.
func ReadBlob(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadKeyList reads a count followed by that many length-prefixed blobs,
// in order (fwmkeys). A count of zero reads nothing further.
func ReadKeyList(r io.Reader) ([][]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		k, err := ReadBlob(r)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ReadRecordList reads a count followed by that many key/value records
// (mget). Records are returned in wire order.
func ReadRecordList(r io.Reader) ([]Record, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	recs := make([]Record, 0, n)
	for i := uint32(0); i < n; i++ {
		ksiz, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		vsiz, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		key := make([]byte, ksiz)
		if err := readFull(r, key); err != nil {
			return nil, err
		}
		val := make([]byte, vsiz)
		if err := readFull(r, val); err != nil {
			return nil, err
		}
		recs = append(recs, Record{Key: key, Value: val})
	}
	return recs, nil
}

// ReadBlobList reads a count followed by that many single blobs, in order
// (misc results).
func ReadBlobList(r io.Reader) ([][]byte, error) {
	return ReadKeyList(r)
}
