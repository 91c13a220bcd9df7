package tyrant

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/hiraku/tyrant/wire"
)

// Connection is a single connection to a server. The protocol carries no
// request identifiers, so a connection supports at most one in-flight
// exchange; the mutex serializes callers for the duration of a full
// request/response cycle. Use separate connections for parallelism.
type Connection struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	mu      sync.Mutex
	closed  bool
}

// NewConnection wraps an established bidirectional stream. timeout bounds
// how long one exchange may block when the context carries no deadline;
// zero means no limit.
func NewConnection(conn net.Conn, timeout time.Duration) *Connection {
	return &Connection{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}
}

// exchange runs one full request-write-then-response-read cycle. read is
// nil for fire-and-forget commands. Any transport fault or elapsed
// deadline leaves the framing position undefined, so the connection is
// marked closed and later calls fail with wire.ErrClosed; a server status
// error keeps the connection usable.
func (c *Connection) exchange(ctx context.Context, req []byte, read func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return wire.ErrClosed
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else if c.timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.timeout))
	} else {
		c.conn.SetDeadline(time.Time{})
	}

	if _, err := c.conn.Write(req); err != nil {
		c.markClosed()
		return &wire.TransportError{Op: "write", Err: err}
	}

	if read == nil {
		return nil
	}

	if err := read(c.reader); err != nil {
		if _, ok := err.(*wire.ServerError); !ok {
			c.markClosed()
		}
		return err
	}

	return nil
}

// IsClosed reports whether the connection has been closed or abandoned
// after a transport fault.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close closes the underlying stream. Closing is the only way to abort an
// exchange in flight, so the stream is closed before taking the lock: a
// read blocked inside an exchange fails once the socket goes away.
func (c *Connection) Close() error {
	err := c.conn.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return err
}

// markClosed abandons the connection after a transport fault. The socket
// is released immediately; callers only ever see wire.ErrClosed afterwards.
// Must be called with the lock held.
func (c *Connection) markClosed() {
	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}
