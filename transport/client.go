package transport

import (
	"net"
	"time"
)

// Client is an open duplex byte channel exclusively owned by a single request. Both
// plain and TLS connections are represented by it, the difference is settled once at
// dial time.
type Client interface {
	Read() ([]byte, error)
	Write([]byte) (int, error)
	Close() error
}

type client struct {
	conn    net.Conn
	buff    []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		buff:    buff,
		conn:    conn,
		timeout: timeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. The returned
// slice is valid only until the next call. Zero timeout means no read deadline.
func (c *client) Read() ([]byte, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Write writes the whole data into the underlying connection.
func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Close closes the connection. It is safe to call it more than once.
func (c *client) Close() error {
	return c.conn.Close()
}
