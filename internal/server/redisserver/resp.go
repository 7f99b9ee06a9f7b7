package redisserver

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	arrayMarker = '*'
	bulkMarker  = '$'
)

// Protocol limits to bound memory held for a single request.
const (
	// MaxArrayLen limits the number of elements in a request array.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single bulk string (512KB).
	MaxBulkLen = 512 * 1024

	// FrameOverhead is the headroom a request needs beyond its largest bulk
	// payload: array and bulk headers, the command name, a key and PX args.
	FrameOverhead = 64 * 1024

	// MinRequestBytes is the smallest request buffer limit that still admits
	// a SET carrying a MaxBulkLen value.
	MinRequestBytes = MaxBulkLen + FrameOverhead

	// DefaultMaxRequestBytes fits a MaxBulkLen value together with a key of
	// the same size.
	DefaultMaxRequestBytes = 2*MaxBulkLen + FrameOverhead
)

var (
	// ErrProtocol is wrapped by every decode error.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrTruncated means the buffer ends before the frame it starts is complete.
	// A stream reader may retry once more bytes have arrived.
	ErrTruncated = fmt.Errorf("%w: truncated frame", ErrProtocol)

	ErrInvalidLength = fmt.Errorf("%w: invalid length prefix", ErrProtocol)
	ErrExpectedArray = fmt.Errorf("%w: expected array", ErrProtocol)
	ErrExpectedBulk  = fmt.Errorf("%w: expected bulk string", ErrProtocol)
	ErrMissingCRLF   = fmt.Errorf("%w: missing CRLF after bulk payload", ErrProtocol)
	ErrInvalidExpiry = fmt.Errorf("%w: invalid expire time", ErrProtocol)
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

// Decode decodes one request from the start of buf. It returns the request and
// the number of bytes the request frame occupied.
//
// The returned request never aliases buf.
func Decode(buf []byte) (Request, int, error) {
	args, n, err := decodeArray(buf)
	if err != nil {
		return nil, 0, err
	}
	req, err := resolve(args)
	if err != nil {
		return nil, 0, err
	}
	return req, n, nil
}

// resolve maps a command name and its arguments onto a Request.
func resolve(args []string) (Request, error) {
	if len(args) == 0 {
		return Unknown{}, nil
	}

	name := normalizeCommandName(args[0])
	rest := args[1:]

	switch name {
	case "PING":
		if len(rest) == 0 {
			return Ping{}, nil
		}
	case "ECHO":
		if len(rest) == 1 {
			return Echo{Message: rest[0]}, nil
		}
	case "SET":
		switch len(rest) {
		case 2:
			return Set{Key: rest[0], Value: rest[1]}, nil
		case 4:
			if !strings.EqualFold(rest[2], "PX") {
				break
			}
			ms, err := strconv.ParseUint(rest[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidExpiry, rest[3])
			}
			return Set{Key: rest[0], Value: rest[1], ExpiryMS: ms, HasExpiry: true}, nil
		}
	case "GET":
		if len(rest) == 1 {
			return Get{Key: rest[0]}, nil
		}
	case "KEYS":
		if len(rest) == 1 {
			return Keys{Pattern: rest[0]}, nil
		}
	case "CONFIG":
		if len(rest) >= 2 && strings.EqualFold(rest[0], "GET") {
			return ConfigGet{Parameter: rest[1]}, nil
		}
	}

	return Unknown{Command: name}, nil
}

// decodeArray decodes "*<n>\r\n" followed by n bulk strings.
func decodeArray(buf []byte) ([]string, int, error) {
	if len(buf) == 0 {
		return nil, 0, ErrTruncated
	}
	if buf[0] != arrayMarker {
		return nil, 0, fmt.Errorf("%w: got %q", ErrExpectedArray, buf[0])
	}

	count, pos, err := parseLength(buf, 1)
	if err != nil {
		return nil, 0, err
	}
	if count > MaxArrayLen {
		return nil, 0, fmt.Errorf("%w: array length %d exceeds %d", ErrLimitExceeded, count, MaxArrayLen)
	}

	args := make([]string, 0, count)
	for i := 0; i < count; i++ {
		arg, next, err := decodeBulk(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		pos = next
	}
	return args, pos, nil
}

// decodeBulk decodes "$<len>\r\n<payload>\r\n" starting at buf[pos].
func decodeBulk(buf []byte, pos int) (string, int, error) {
	if pos >= len(buf) {
		return "", 0, ErrTruncated
	}
	if buf[pos] != bulkMarker {
		return "", 0, fmt.Errorf("%w: got %q", ErrExpectedBulk, buf[pos])
	}

	size, start, err := parseLength(buf, pos+1)
	if err != nil {
		return "", 0, err
	}
	if size > MaxBulkLen {
		return "", 0, fmt.Errorf("%w: bulk length %d exceeds %d", ErrLimitExceeded, size, MaxBulkLen)
	}

	end := start + size
	if end+2 > len(buf) {
		return "", 0, ErrTruncated
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return "", 0, ErrMissingCRLF
	}
	return string(buf[start:end]), end + 2, nil
}

// parseLength reads the ASCII digits starting at buf[pos] up to the first CR,
// which must be followed by LF. It returns the value and the index just past LF.
func parseLength(buf []byte, pos int) (int, int, error) {
	start := pos
	n := 0
	for {
		if pos >= len(buf) {
			return 0, 0, ErrTruncated
		}
		c := buf[pos]
		if c == '\r' {
			break
		}
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("%w: unexpected byte %q", ErrInvalidLength, c)
		}
		n = n*10 + int(c-'0')
		if n > MaxBulkLen {
			return 0, 0, fmt.Errorf("%w: length exceeds %d", ErrLimitExceeded, MaxBulkLen)
		}
		pos++
	}
	if pos == start {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidLength)
	}
	if pos+1 >= len(buf) {
		return 0, 0, ErrTruncated
	}
	if buf[pos+1] != '\n' {
		return 0, 0, fmt.Errorf("%w: CR not followed by LF", ErrInvalidLength)
	}
	return n, pos + 2, nil
}

func normalizeCommandName(s string) string {
	// Uppercase ASCII without allocating for already uppercased tokens.
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(s)
	}
	return s
}

func WriteSimpleString(w *bufio.Writer, s string) error {
	_, err := w.WriteString("+" + s + "\r\n")
	return err
}

func WriteError(w *bufio.Writer, s string) error {
	_, err := w.WriteString("-" + s + "\r\n")
	return err
}

func WriteNullBulk(w *bufio.Writer) error {
	_, err := w.WriteString("$-1\r\n")
	return err
}

func WriteBulkString(w *bufio.Writer, s string) error {
	if _, err := w.WriteString("$" + strconv.Itoa(len(s)) + "\r\n"); err != nil {
		return err
	}
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

func WriteArrayHeader(w *bufio.Writer, n int) error {
	_, err := w.WriteString("*" + strconv.Itoa(n) + "\r\n")
	return err
}
