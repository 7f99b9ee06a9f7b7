// Package redisserver provides a Redis protocol compatible server for memkv.
//
// This package implements the RESP2 subset memkv speaks:
//
//   - resp.go: request decoding (arrays of bulk strings) and reply encoding
//   - request.go: the closed set of decoded requests
//   - command.go: dispatch of requests against the key-value store
//   - server.go: TCP listener and per-connection read/decode/reply loop
//
// Supported commands:
//   - PING, ECHO
//   - SET (with optional PX), GET
//   - KEYS
//   - CONFIG GET
//
// A malformed frame closes the connection without a reply. A well-framed
// request for anything else is answered with "-ERR unknown command".
package redisserver
