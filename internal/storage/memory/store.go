package memory

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount keeps the whole key space behind one lock.
const DefaultShardCount = 1

// MaxShardCount bounds WithShards.
const MaxShardCount = 1024

type entry struct {
	value string
	// expiresAt is the zero time when the entry never expires.
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type partition struct {
	mu    sync.Mutex
	items map[string]entry
}

// Store is the process-wide key-value store shared by every connection.
type Store struct {
	parts  []*partition
	config map[string]string
	now    func() time.Time
	shards int
}

// Option configures the Store.
type Option func(*Store)

// WithShards sets the number of independently locked partitions.
// Values outside [1, MaxShardCount] fall back to DefaultShardCount.
func WithShards(n int) Option {
	return func(s *Store) {
		s.shards = n
	}
}

// WithConfig sets the read-only parameters returned by ConfigGet.
// The map is copied.
func WithConfig(params map[string]string) Option {
	return func(s *Store) {
		for k, v := range params {
			s.config[k] = v
		}
	}
}

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		config: make(map[string]string),
		now:    time.Now,
		shards: DefaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.shards < 1 || s.shards > MaxShardCount {
		s.shards = DefaultShardCount
	}
	s.parts = make([]*partition, s.shards)
	for i := range s.parts {
		s.parts[i] = &partition{items: make(map[string]entry)}
	}

	return s
}

func (s *Store) partitionFor(key string) *partition {
	if len(s.parts) == 1 {
		return s.parts[0]
	}
	return s.parts[murmur3.Sum32([]byte(key))%uint32(len(s.parts))]
}

// Set inserts or overwrites key with no expiry.
func (s *Store) Set(key, value string) {
	p := s.partitionFor(key)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[key] = entry{value: value}
}

// SetWithExpire inserts or overwrites key so that it expires ttlMS milliseconds
// from now. A ttl of 0 makes the entry absent to every later read.
func (s *Store) SetWithExpire(key, value string, ttlMS uint64) {
	expiresAt := s.now().Add(ttlDuration(ttlMS))

	p := s.partitionFor(key)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[key] = entry{value: value, expiresAt: expiresAt}
}

// Get returns the value of key. Expired entries are evicted and reported absent.
func (s *Store) Get(key string) (string, bool) {
	p := s.partitionFor(key)
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.items[key]
	if !ok {
		return "", false
	}
	if e.expired(s.now()) {
		delete(p.items, key)
		return "", false
	}
	return e.value, true
}

// Keys returns the live keys matching pattern, in no particular order.
// Expired entries met during the scan are evicted.
func (s *Store) Keys(pattern string) []string {
	match := compilePattern(pattern)

	s.lockAll()
	defer s.unlockAll()

	now := s.now()
	out := make([]string, 0)
	for _, p := range s.parts {
		for k, e := range p.items {
			if e.expired(now) {
				delete(p.items, k)
				continue
			}
			if match(k) {
				out = append(out, k)
			}
		}
	}
	return out
}

// ConfigGet returns a configuration parameter. The mapping is fixed at
// construction and never mutated, so no lock is taken.
func (s *Store) ConfigGet(name string) (string, bool) {
	v, ok := s.config[name]
	return v, ok
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.lockAll()
	defer s.unlockAll()

	now := s.now()
	n := 0
	for _, p := range s.parts {
		for _, e := range p.items {
			if !e.expired(now) {
				n++
			}
		}
	}
	return n
}

// Sweep evicts every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	removed := 0
	for _, p := range s.parts {
		p.mu.Lock()
		now := s.now()
		for k, e := range p.items {
			if e.expired(now) {
				delete(p.items, k)
				removed++
			}
		}
		p.mu.Unlock()
	}
	return removed
}

// RunJanitor calls Sweep every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("swept expired keys", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Janitor is a RunJanitor loop running on its own goroutine.
type Janitor struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartJanitor runs RunJanitor in the background. The loop ends when ctx is
// done or Stop is called.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) *Janitor {
	ctx, cancel := context.WithCancel(ctx)
	j := &Janitor{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(j.done)
		s.RunJanitor(ctx, interval, logger)
	}()
	return j
}

// Stop ends the sweep loop and waits for it to exit or for ctx to expire.
// It is safe to call more than once.
func (j *Janitor) Stop(ctx context.Context) error {
	j.cancel()
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) lockAll() {
	for _, p := range s.parts {
		p.mu.Lock()
	}
}

func (s *Store) unlockAll() {
	for i := len(s.parts) - 1; i >= 0; i-- {
		s.parts[i].mu.Unlock()
	}
}

// ttlDuration converts milliseconds to a Duration, saturating at the largest
// representable value.
func ttlDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}
