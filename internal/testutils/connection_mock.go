package testutils

import (
	"bytes"
	"io"
	"net"
	"time"
)

// ConnectionMock is a net.Conn whose reads replay a scripted response,
// one chunk per Read call, so tests control exactly how the stream is
// fragmented. When the script runs out, reads report EOF, or a timeout
// if the mock was built with Stalling.
type ConnectionMock struct {
	chunks   [][]byte
	stalling bool
	writeBuf bytes.Buffer
	closed   bool
}

// NewConnectionMock returns a mock that delivers the given chunks in
// order and then closes the stream.
func NewConnectionMock(chunks ...[]byte) *ConnectionMock {
	return &ConnectionMock{chunks: chunks}
}

// Stalling makes the mock report a read timeout instead of EOF once the
// scripted chunks are exhausted.
func (m *ConnectionMock) Stalling() *ConnectionMock {
	m.stalling = true
	return m
}

func (m *ConnectionMock) Read(b []byte) (int, error) {
	if len(m.chunks) == 0 {
		if m.stalling {
			return 0, timeoutError{}
		}
		return 0, io.EOF
	}

	chunk := m.chunks[0]
	n := copy(b, chunk)
	if n < len(chunk) {
		m.chunks[0] = chunk[n:]
	} else {
		m.chunks = m.chunks[1:]
	}
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (int, error) {
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

// Written returns the raw request bytes the client sent.
func (m *ConnectionMock) Written() []byte {
	return m.writeBuf.Bytes()
}

// IsClosed reports whether Close was called.
func (m *ConnectionMock) IsClosed() bool {
	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1978}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// timeoutError satisfies net.Error the way a deadline miss does.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
