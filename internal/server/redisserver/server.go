package redisserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/memkv/internal/telemetry/metric"
)

// Config holds the Redis server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadBufferSize is the size of a single socket read (default: 1024).
	ReadBufferSize int
	// MaxRequestBytes bounds the bytes buffered for one incomplete request.
	// A client exceeding it is disconnected. Values below MinRequestBytes are
	// raised to it.
	MaxRequestBytes int
	// RateLimit is the maximum number of commands per second per connection.
	// Set to 0 to disable rate limiting. Excess commands are delayed, not rejected.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            "127.0.0.1:6379",
		ReadBufferSize:  1024,
		MaxRequestBytes: DefaultMaxRequestBytes,
		RateLimit:       0,
	}
}

// Server represents the Redis protocol server.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	metrics *metric.Registry
	logger  *slog.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[*Conn]struct{}

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Conn represents a single Redis client connection.
type Conn struct {
	id      string
	netConn net.Conn
	bw      *bufio.Writer

	chunk   []byte
	pending []byte
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, cfg *Config) *Conn {
	conn := &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		bw:      bufio.NewWriter(c),
		chunk:   make([]byte, cfg.ReadBufferSize),
	}
	if cfg.RateLimit > 0 {
		conn.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return conn
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a new Redis protocol server. metrics and logger may be nil.
func New(cfg *Config, store Store, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultConfig().ReadBufferSize
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = DefaultMaxRequestBytes
	} else if cfg.MaxRequestBytes < MinRequestBytes {
		cfg.MaxRequestBytes = MinRequestBytes
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(store, metrics, logger),
		metrics: metrics,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
		done:    make(chan struct{}),
	}
}

// Start binds the listen address and serves connections in the background.
// A bind failure is returned to the caller. Cancelling ctx stops accepting.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("redisserver: listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	go func() {
		select {
		case <-ctx.Done():
			s.running.Store(false)
			_ = ln.Close()
		case <-s.done:
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("redis accept loop stopped", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to finish or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.Swap(false) && s.Addr() == nil {
		return nil
	}

	var firstErr error

	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	// Wait for goroutines to finish
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := newConn(nc, s.cfg)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	log := s.logger.With("conn_id", c.ID(), "remote", c.RemoteAddr().String())
	log.Debug("connection accepted")
	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	for {
		n, readErr := c.netConn.Read(c.chunk)
		if n > 0 {
			c.pending = append(c.pending, c.chunk[:n]...)
			if err := s.process(ctx, c); err != nil {
				if errors.Is(err, ErrProtocol) {
					s.metrics.DecodeError()
					log.Warn("closing connection on malformed request", "error", err)
				} else {
					log.Debug("connection error", "error", err)
				}
				return
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				log.Debug("connection closed")
			} else {
				log.Debug("connection read error", "error", readErr)
			}
			return
		}
	}
}

// process executes every complete request buffered on c, in order, and
// flushes their replies. An incomplete trailing frame stays buffered.
func (s *Server) process(ctx context.Context, c *Conn) error {
	consumed := 0
	var procErr error

	for consumed < len(c.pending) {
		req, n, err := Decode(c.pending[consumed:])
		if errors.Is(err, ErrTruncated) {
			if len(c.pending)-consumed > s.cfg.MaxRequestBytes {
				procErr = fmt.Errorf("%w: request exceeds %d bytes", ErrLimitExceeded, s.cfg.MaxRequestBytes)
			}
			break
		}
		if err != nil {
			procErr = err
			break
		}
		consumed += n

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				procErr = err
				break
			}
		}
		if err := s.handler.Handle(c.bw, req); err != nil {
			return err
		}
	}

	if consumed > 0 {
		c.pending = append(c.pending[:0], c.pending[consumed:]...)
	}

	// Replies for requests that preceded a bad frame are still delivered.
	if err := c.bw.Flush(); err != nil {
		return err
	}
	return procErr
}
