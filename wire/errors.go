package wire

import (
	"errors"
	"strconv"
)

// Error taxonomy for one exchange. The four kinds are deliberately kept
// apart: a server status code says nothing about the health of the
// connection, while the three transport kinds mean the framing position is
// lost and the connection must be discarded.

var (
	// ErrClosed reports that the stream ended before a complete response
	// was read. A partial frame is never surfaced as data.
	ErrClosed = errors.New("tyrant: connection closed")

	// ErrTimeout reports that the read deadline elapsed while waiting for
	// response bytes. The framing position is undefined afterwards.
	ErrTimeout = errors.New("tyrant: read timed out")
)

// ServerError is a non-zero status byte returned by the server. The code
// is server-defined and opaque to the client; it is carried through
// unchanged. The response carries no payload after a non-zero status.
type ServerError struct {
	Code uint8
}

func (e *ServerError) Error() string {
	return "tyrant: server error " + strconv.Itoa(int(e.Code))
}

// TransportError wraps an I/O fault reported by the underlying stream,
// other than clean closure or a deadline.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return "tyrant: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
