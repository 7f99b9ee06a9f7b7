// Package logger provides structured logging for memkv.
//
// This package wraps log/slog:
//
//   - logger.go: handler construction, runtime level control, process default
//   - redact.go: masking of attributes that may carry stored payloads or secrets
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime through SetLevel
//   - Automatic sensitive data masking
package logger
