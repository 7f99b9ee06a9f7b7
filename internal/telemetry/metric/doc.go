// Package metric provides Prometheus metrics for memkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, per-command and connection metrics, HTTP handler
//   - collector.go: custom collector reading live store statistics at scrape time
//
// Metrics are exposed at /metrics in Prometheus format by the optional HTTP
// side server. Every recording method is safe on a nil *Registry.
package metric
