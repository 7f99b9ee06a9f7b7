package connection

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Manager owns the connection shared by the commands of one CLI run.
type Manager struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	client *Client
}

// NewManager creates a manager for addr. Nothing is dialed yet.
func NewManager(addr string, timeout time.Duration) *Manager {
	return &Manager{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	return m.addr
}

// Client returns the current connection, dialing on first use.
func (m *Manager) Client(ctx context.Context) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	c, err := Dial(ctx, m.addr, m.timeout)
	if err != nil {
		return nil, err
	}
	m.client = c
	return c, nil
}

// IsConnected reports whether a connection is open.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Disconnect closes the current connection. The next Client call redials.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}

// Call runs one command on the shared connection. A transport failure
// drops the connection so the next call starts clean.
func (m *Manager) Call(ctx context.Context, args ...string) (any, error) {
	c, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := c.Call(ctx, args...)
	var serverErr *ServerError
	if err != nil && !errors.As(err, &serverErr) {
		_ = m.Disconnect()
	}
	return reply, err
}
