package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/memkv/internal/server/httpserver/handler"
	"github.com/yndnr/memkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Keys reports the live key count for /ready. Optional.
	Keys handler.KeyCounter

	// Metrics is exposed on /metrics. A nil registry disables the route.
	Metrics *metric.Registry

	Logger *slog.Logger
}

// NewRouter builds the side server handler with its middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metricsHandler http.Handler
	if cfg.Metrics != nil {
		metricsHandler = cfg.Metrics.Handler()
	}

	h := handler.New(cfg.Keys, metricsHandler, logger)

	return Chain(h,
		RequestID(),
		Recover(logger),
		AccessLog(logger),
	)
}
