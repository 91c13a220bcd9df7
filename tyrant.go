// Package tyrant is a client for the Tokyo Tyrant remote database. It
// implements the length-prefixed binary protocol (magic byte 0xC8) over a
// single TCP connection: typed operations are encoded to the exact wire
// format, sent, and the length-prefixed response is reassembled from the
// stream, however it happens to be chunked, into typed results.
//
// The protocol is strictly synchronous: one request, then one response.
// A Client serializes its callers so only one exchange is ever in flight;
// open several clients for concurrent access. There is no pooling, no
// retry and no multiplexing here; callers own that policy.
//
// The low-level codec lives in the wire package and can be used on its
// own against any byte stream.
package tyrant

import "github.com/hiraku/tyrant/wire"

// Value is a value argument. Construct with Bytes, String or Int; Int
// keeps the protocol's fixed 4-byte counter encoding for non-negative
// integers below 2^32.
type Value = wire.Value

// KV is a key/value argument pair for Misc calls.
type KV = wire.KV

// Record is one key/value entry of a MultiGet result.
type Record = wire.Record

// Bytes returns a Value carrying raw bytes.
func Bytes(p []byte) Value { return wire.Bytes(p) }

// String returns a Value carrying the bytes of s.
func String(s string) Value { return wire.String(s) }

// Int returns a Value carrying an integer.
func Int(n int64) Value { return wire.Int(n) }

// Locking options for Ext.
const (
	ExtLockRecord = wire.ExtLockRecord
	ExtLockGlobal = wire.ExtLockGlobal
)
