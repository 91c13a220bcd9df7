package tyrant

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/hiraku/tyrant/wire"
)

// Config holds the connection settings for a client. It replaces the
// host/port/timeout defaults of older clients with explicit values passed
// at construction.
type Config struct {
	// Addr is the server address in host:port form. Only used by Dial.
	Addr string

	// Timeout bounds one full exchange when the context has no deadline.
	// Zero means no timeout. A timed-out connection is unusable and is
	// marked closed.
	Timeout time.Duration

	// DialTimeout bounds connection establishment. Falls back to Timeout
	// when zero.
	DialTimeout time.Duration

	// Dialer overrides the net.Dialer used by Dial.
	Dialer *net.Dialer
}

// Client speaks the binary protocol over a single connection. Every
// operation is one synchronous exchange; concurrent calls on the same
// client are serialized, never interleaved on the wire.
type Client struct {
	conn *Connection
}

// NewClient wraps an established stream. The config's Addr and dialing
// fields are ignored.
func NewClient(conn net.Conn, config Config) *Client {
	return &Client{conn: NewConnection(conn, config.Timeout)}
}

// Dial connects to config.Addr over TCP.
func Dial(ctx context.Context, config Config) (*Client, error) {
	dialer := config.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	dialTimeout := config.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = config.Timeout
	}
	if dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialTimeout)
		defer cancel()
	}

	netConn, err := dialer.DialContext(ctx, "tcp", config.Addr)
	if err != nil {
		return nil, err
	}
	return NewClient(netConn, config), nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// IsClosed reports whether the connection is no longer usable.
func (c *Client) IsClosed() bool {
	return c.conn.IsClosed()
}

// do runs an exchange whose success response is the bare status byte.
func (c *Client) do(ctx context.Context, req []byte) error {
	return c.conn.exchange(ctx, req, wire.ReadStatus)
}

// Put stores a record, overwriting any existing value.
func (c *Client) Put(ctx context.Context, key []byte, value Value) error {
	return c.do(ctx, wire.EncodeKeyValue(wire.OpPut, key, value))
}

// PutKeep stores a record only if the key does not exist yet.
func (c *Client) PutKeep(ctx context.Context, key []byte, value Value) error {
	return c.do(ctx, wire.EncodeKeyValue(wire.OpPutKeep, key, value))
}

// PutCat appends value to the record, creating it if absent.
func (c *Client) PutCat(ctx context.Context, key []byte, value Value) error {
	return c.do(ctx, wire.EncodeKeyValue(wire.OpPutCat, key, value))
}

// PutShiftLeft appends value and shifts the record left so it is at most
// width bytes long.
func (c *Client) PutShiftLeft(ctx context.Context, key []byte, value Value, width int32) error {
	return c.do(ctx, wire.EncodeShiftAppend(wire.OpPutShl, key, value, width))
}

// PutNoReply stores a record without waiting for a response. The server
// sends none; delivery order relative to later commands is still FIFO.
func (c *Client) PutNoReply(ctx context.Context, key []byte, value Value) error {
	return c.conn.exchange(ctx, wire.EncodeKeyValue(wire.OpPutNR, key, value), nil)
}

// Remove deletes a record.
func (c *Client) Remove(ctx context.Context, key []byte) error {
	return c.do(ctx, wire.EncodeKey(wire.OpOut, key))
}

// Get retrieves the value of a record. A missing record is reported as a
// ServerError with the server's status code.
func (c *Client) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := c.conn.exchange(ctx, wire.EncodeKey(wire.OpGet, key), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		value, err = wire.ReadBlob(r)
		return err
	})
	return value, err
}

// MultiGet retrieves several records in one exchange. Records come back
// in the server's order; keys that do not exist are simply absent.
func (c *Client) MultiGet(ctx context.Context, keys [][]byte) ([]Record, error) {
	var recs []Record
	err := c.conn.exchange(ctx, wire.EncodeKeyList(wire.OpMGet, keys), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		recs, err = wire.ReadRecordList(r)
		return err
	})
	return recs, err
}

// ValueSize reports the size of the value of a record without fetching it.
func (c *Client) ValueSize(ctx context.Context, key []byte) (int, error) {
	n, err := c.exchangeInt32(ctx, wire.EncodeKey(wire.OpVSiz, key))
	return int(n), err
}

// IterInit initializes the server-side key iterator.
func (c *Client) IterInit(ctx context.Context) error {
	return c.do(ctx, wire.EncodeNoArg(wire.OpIterInit))
}

// IterNext yields the next key of the iterator. The server reports the
// end of iteration with a status error.
func (c *Client) IterNext(ctx context.Context) ([]byte, error) {
	var key []byte
	err := c.conn.exchange(ctx, wire.EncodeNoArg(wire.OpIterNext), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		key, err = wire.ReadBlob(r)
		return err
	})
	return key, err
}

// ForwardMatchingKeys lists up to max keys beginning with prefix. A
// negative max means no limit.
func (c *Client) ForwardMatchingKeys(ctx context.Context, prefix []byte, max int32) ([][]byte, error) {
	var keys [][]byte
	err := c.conn.exchange(ctx, wire.EncodePrefixScan(wire.OpFwmKeys, prefix, max), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		keys, err = wire.ReadKeyList(r)
		return err
	})
	return keys, err
}

// AddInt atomically adds delta to the record and returns the new value.
// The record must hold a 4-byte counter (see Int values).
func (c *Client) AddInt(ctx context.Context, key []byte, delta int32) (int32, error) {
	return c.exchangeInt32(ctx, wire.EncodeAddInt(key, delta))
}

// fractUnits is the scale of the fractional word of adddouble.
const fractUnits = 1000000000000

// AddDouble atomically adds num to the record and returns the new value.
// The number travels as separate integral and fractional 64-bit words.
func (c *Client) AddDouble(ctx context.Context, key []byte, num float64) (float64, error) {
	integ := int64(num)
	fract := int64((num - float64(integ)) * fractUnits)

	var sum float64
	err := c.conn.exchange(ctx, wire.EncodeAddDouble(key, integ, fract), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		i, f, err := wire.ReadInt64Pair(r)
		if err != nil {
			return err
		}
		sum = float64(i) + float64(f)/fractUnits
		return nil
	})
	return sum, err
}

// Ext calls the server-side extension function name with a key/value
// argument. opts is a bitwise-or of ExtLockRecord and ExtLockGlobal.
func (c *Client) Ext(ctx context.Context, name string, opts int32, key []byte, value Value) ([]byte, error) {
	var result []byte
	req := wire.EncodeExt([]byte(name), opts, key, value)
	err := c.conn.exchange(ctx, req, func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		result, err = wire.ReadBlob(r)
		return err
	})
	return result, err
}

// Sync flushes updates to the storage device.
func (c *Client) Sync(ctx context.Context) error {
	return c.do(ctx, wire.EncodeNoArg(wire.OpSync))
}

// Optimize optimizes the database with the given tuning parameters; an
// empty string keeps the current tuning.
func (c *Client) Optimize(ctx context.Context, params string) error {
	return c.do(ctx, wire.EncodeKey(wire.OpOptimize, []byte(params)))
}

// Vanish removes every record of the database.
func (c *Client) Vanish(ctx context.Context) error {
	return c.do(ctx, wire.EncodeNoArg(wire.OpVanish))
}

// Copy copies the database file to path on the server host.
func (c *Client) Copy(ctx context.Context, path string) error {
	return c.do(ctx, wire.EncodeKey(wire.OpCopy, []byte(path)))
}

// Restore restores the database from the update log at path, starting at
// the given timestamp.
func (c *Client) Restore(ctx context.Context, path string, since time.Time) error {
	return c.do(ctx, wire.EncodeRestore([]byte(path), uint64(since.UnixMicro())))
}

// SetMaster sets the replication master of the server. An empty host
// clears replication.
func (c *Client) SetMaster(ctx context.Context, host string, port int) error {
	return c.do(ctx, wire.EncodeSetMaster([]byte(host), int32(port)))
}

// RecordCount reports the number of records in the database.
func (c *Client) RecordCount(ctx context.Context) (uint64, error) {
	return c.exchangeUint64(ctx, wire.EncodeNoArg(wire.OpRNum))
}

// Size reports the size of the database in bytes.
func (c *Client) Size(ctx context.Context) (uint64, error) {
	return c.exchangeUint64(ctx, wire.EncodeNoArg(wire.OpSize))
}

// RawStat returns the server status message as the raw blob the server
// sent: newline-delimited "name TAB value" lines.
func (c *Client) RawStat(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := c.conn.exchange(ctx, wire.EncodeNoArg(wire.OpStat), func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		blob, err = wire.ReadBlob(r)
		return err
	})
	return blob, err
}

// Stat returns the server status message parsed into a map. This is a
// convenience on top of RawStat, not part of the framing contract.
func (c *Client) Stat(ctx context.Context) (map[string]string, error) {
	blob, err := c.RawStat(ctx)
	if err != nil {
		return nil, err
	}
	return ParseStat(blob), nil
}

// Misc calls the versatile server function name (put, out, get, putlist,
// outlist, getlist, ...) with key/value argument pairs, recording the
// operation in the update log.
func (c *Client) Misc(ctx context.Context, name string, pairs []KV) ([][]byte, error) {
	return c.misc(ctx, name, 0, pairs)
}

// MiscNoUpdate is Misc without update logging; the results are not
// replicated.
func (c *Client) MiscNoUpdate(ctx context.Context, name string, pairs []KV) ([][]byte, error) {
	return c.misc(ctx, name, wire.MiscNoUpdateLog, pairs)
}

func (c *Client) misc(ctx context.Context, name string, opts int32, pairs []KV) ([][]byte, error) {
	var results [][]byte
	req := wire.EncodeMisc([]byte(name), opts, pairs)
	err := c.conn.exchange(ctx, req, func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		results, err = wire.ReadBlobList(r)
		return err
	})
	return results, err
}

func (c *Client) exchangeInt32(ctx context.Context, req []byte) (int32, error) {
	var n int32
	err := c.conn.exchange(ctx, req, func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		n, err = wire.ReadInt32(r)
		return err
	})
	return n, err
}

func (c *Client) exchangeUint64(ctx context.Context, req []byte) (uint64, error) {
	var n uint64
	err := c.conn.exchange(ctx, req, func(r io.Reader) error {
		if err := wire.ReadStatus(r); err != nil {
			return err
		}
		var err error
		n, err = wire.ReadUint64(r)
		return err
	})
	return n, err
}
