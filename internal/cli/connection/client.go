package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tidwall/resp"
)

// DefaultTimeout bounds dialing and each request when the context has no deadline.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("connection closed")

// ServerError is an error reply sent by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client is a single RESP connection. It is safe for concurrent use;
// requests are serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	bw     *bufio.Writer
	rd     *resp.Reader
	closed bool
}

// Dial connects to a memkv server.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		bw:      bufio.NewWriter(conn),
		rd:      resp.NewReader(conn),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and returns the raw reply.
// Error replies are returned as a value, not as an error.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Value{}, ErrClosed
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Value{}, err
	}

	vals := make([]resp.Value, len(args))
	for i, a := range args {
		vals[i] = resp.StringValue(a)
	}
	if err := resp.NewWriter(c.bw).WriteArray(vals); err != nil {
		return resp.Value{}, fmt.Errorf("write request: %w", err)
	}
	if err := c.bw.Flush(); err != nil {
		return resp.Value{}, fmt.Errorf("write request: %w", err)
	}

	v, _, err := c.rd.ReadValue()
	if err != nil {
		return resp.Value{}, fmt.Errorf("read reply: %w", err)
	}
	return v, nil
}

// Call sends one command and decodes the reply with Decode.
func (c *Client) Call(ctx context.Context, args ...string) (any, error) {
	v, err := c.Do(ctx, args...)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Decode converts a reply into plain Go values: nil for a null reply,
// string for simple and bulk strings, int for integers and []any for
// arrays. An error reply becomes a *ServerError.
func Decode(v resp.Value) (any, error) {
	switch v.Type() {
	case resp.Error:
		return nil, &ServerError{Message: v.String()}
	case resp.Integer:
		return v.Integer(), nil
	case resp.Array:
		if v.IsNull() {
			return nil, nil
		}
		items := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			d, err := Decode(item)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		if v.IsNull() {
			return nil, nil
		}
		return v.String(), nil
	}
}
