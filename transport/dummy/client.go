package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/minihttp/transport"
)

var _ transport.Client = new(Client)

// Client returns the data it was initialised with piece by piece, and io.EOF afterwards,
// unless set to loop. It also tracks all the written data, making it thereby a universal
// mock suitable for most of the tests.
type Client struct {
	closed  bool
	loop    bool
	pointer int
	written []byte
	data    [][]byte
	readErr error
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

// NewMockClientString is a shorthand for feeding string fragments.
func NewMockClientString(data ...string) *Client {
	pieces := make([][]byte, len(data))
	for i, piece := range data {
		pieces[i] = []byte(piece)
	}

	return NewMockClient(pieces...)
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, net.ErrClosed
	}

	if c.pointer >= len(c.data) {
		if !c.loop || len(c.data) == 0 {
			if c.readErr != nil {
				return nil, c.readErr
			}

			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Write(p []byte) (int, error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	c.written = append(c.written, p...)

	return len(p), nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// LoopReads makes the client start over instead of returning io.EOF.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

// FailWith replaces the io.EOF, returned after all the data was consumed, by an error.
func (c *Client) FailWith(err error) *Client {
	c.readErr = err
	return c
}

// Written returns everything written into the client so far.
func (c *Client) Written() []byte {
	return c.written
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	return c.closed
}
