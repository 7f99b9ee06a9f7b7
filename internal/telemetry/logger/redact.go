package logger

import (
	"log/slog"
	"strings"
)

// sensitiveWords are matched against the last underscore-separated segment
// of an attribute key, so "old_value" is masked while "value_len" is not.
var sensitiveWords = map[string]struct{}{
	"value":    {},
	"payload":  {},
	"password": {},
	"secret":   {},
}

const redactedValue = "***REDACTED***"

// redactSensitive masks non-empty string attributes with a sensitive key and
// walks groups.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, attr := range group {
			masked[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}
	return a
}

// IsSensitiveKey reports whether values logged under key must be masked.
// Stored values are user data and never reach the log verbatim.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if i := strings.LastIndexByte(key, '_'); i >= 0 {
		key = key[i+1:]
	}
	_, ok := sensitiveWords[key]
	return ok
}
