// Package httpserver runs the optional HTTP side server of memkv.
//
// It never touches the RESP data path. The endpoints are:
//
//   - GET /health   liveness, always 200 while the process serves
//   - GET /ready    readiness with the live key count
//   - GET /info     build information
//   - GET /metrics  Prometheus exposition
//
// Every request passes through RequestID, Recover and AccessLog.
package httpserver
