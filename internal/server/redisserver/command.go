package redisserver

import (
	"bufio"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yndnr/memkv/internal/telemetry/metric"
)

// Store is the key-value state commands execute against.
type Store interface {
	Set(key, value string)
	SetWithExpire(key, value string, ttlMS uint64)
	Get(key string) (string, bool)
	Keys(pattern string) []string
	ConfigGet(name string) (string, bool)
}

// CommandHandler executes decoded requests and writes their replies.
type CommandHandler struct {
	store   Store
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
func NewCommandHandler(store Store, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes req and writes exactly one reply to w. It does not flush.
func (h *CommandHandler) Handle(w *bufio.Writer, req Request) error {
	start := time.Now()
	defer func() {
		h.metrics.ObserveCommand(req.Name(), time.Since(start))
	}()

	switch r := req.(type) {
	case Ping:
		return WriteSimpleString(w, "PONG")

	case Echo:
		return WriteSimpleString(w, r.Message)

	case Set:
		if r.HasExpiry {
			h.store.SetWithExpire(r.Key, r.Value, r.ExpiryMS)
		} else {
			h.store.Set(r.Key, r.Value)
		}
		return WriteSimpleString(w, "OK")

	case Get:
		v, ok := h.store.Get(r.Key)
		if !ok {
			return WriteNullBulk(w)
		}
		return WriteSimpleString(w, v)

	case Keys:
		return h.handleKeys(w, r)

	case ConfigGet:
		v, ok := h.store.ConfigGet(r.Parameter)
		if !ok {
			return WriteNullBulk(w)
		}
		if err := WriteArrayHeader(w, 2); err != nil {
			return err
		}
		if err := WriteBulkString(w, r.Parameter); err != nil {
			return err
		}
		return WriteBulkString(w, v)

	case Unknown:
		h.logger.Debug("unknown command", "command", r.Command)
		return WriteError(w, "ERR unknown command")

	default:
		return fmt.Errorf("redisserver: unhandled request type %T", req)
	}
}

func (h *CommandHandler) handleKeys(w *bufio.Writer, r Keys) error {
	keys := h.store.Keys(r.Pattern)
	sort.Strings(keys)

	if err := WriteArrayHeader(w, len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := WriteBulkString(w, k); err != nil {
			return err
		}
	}
	return nil
}
