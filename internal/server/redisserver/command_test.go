package redisserver

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/memkv/internal/storage/memory"
	"github.com/yndnr/memkv/internal/telemetry/metric"
)

// testConn captures replies written by a CommandHandler.
type testConn struct {
	buf bytes.Buffer
	bw  *bufio.Writer
}

func newTestConn() *testConn {
	tc := &testConn{}
	tc.bw = bufio.NewWriter(&tc.buf)
	return tc
}

func (tc *testConn) FlushAndGetOutput() string {
	_ = tc.bw.Flush()
	return tc.buf.String()
}

func newTestCommandHandler() (*CommandHandler, *memory.Store) {
	store := memory.New(memory.WithConfig(map[string]string{
		"dir":        "/tmp/memkv",
		"dbfilename": "dump.rdb",
	}))
	return NewCommandHandler(store, nil, nil), store
}

func handle(t *testing.T, h *CommandHandler, req Request) string {
	t.Helper()
	tc := newTestConn()
	if err := h.Handle(tc.bw, req); err != nil {
		t.Fatalf("Handle(%#v) error = %v", req, err)
	}
	return tc.FlushAndGetOutput()
}

func TestCommandHandler_Replies(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{name: "ping", req: Ping{}, want: "+PONG\r\n"},
		{name: "echo", req: Echo{Message: "hey"}, want: "+hey\r\n"},
		{name: "echo empty", req: Echo{Message: ""}, want: "+\r\n"},
		{name: "set", req: Set{Key: "k", Value: "v"}, want: "+OK\r\n"},
		{name: "get miss", req: Get{Key: "missing"}, want: "$-1\r\n"},
		{name: "keys empty", req: Keys{Pattern: "*"}, want: "*0\r\n"},
		{name: "config get dir", req: ConfigGet{Parameter: "dir"}, want: "*2\r\n$3\r\ndir\r\n$10\r\n/tmp/memkv\r\n"},
		{name: "config get dbfilename", req: ConfigGet{Parameter: "dbfilename"}, want: "*2\r\n$10\r\ndbfilename\r\n$8\r\ndump.rdb\r\n"},
		{name: "config get miss", req: ConfigGet{Parameter: "maxmemory"}, want: "$-1\r\n"},
		{name: "unknown", req: Unknown{Command: "FLUSHALL"}, want: "-ERR unknown command\r\n"},
		{name: "empty request", req: Unknown{}, want: "-ERR unknown command\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestCommandHandler()
			if got := handle(t, h, tt.req); got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandHandler_SetThenGet(t *testing.T) {
	h, _ := newTestCommandHandler()

	if got := handle(t, h, Set{Key: "foo", Value: "bar"}); got != "+OK\r\n" {
		t.Fatalf("SET reply = %q", got)
	}
	if got := handle(t, h, Get{Key: "foo"}); got != "+bar\r\n" {
		t.Errorf("GET reply = %q, want %q", got, "+bar\r\n")
	}
}

func TestCommandHandler_SetWithZeroExpiry(t *testing.T) {
	h, _ := newTestCommandHandler()

	if got := handle(t, h, Set{Key: "k", Value: "v", ExpiryMS: 0, HasExpiry: true}); got != "+OK\r\n" {
		t.Fatalf("SET reply = %q", got)
	}
	if got := handle(t, h, Get{Key: "k"}); got != "$-1\r\n" {
		t.Errorf("GET reply = %q, want null bulk", got)
	}
}

func TestCommandHandler_SetWithExpiryStillReadable(t *testing.T) {
	h, _ := newTestCommandHandler()

	handle(t, h, Set{Key: "k", Value: "v", ExpiryMS: 60_000, HasExpiry: true})
	if got := handle(t, h, Get{Key: "k"}); got != "+v\r\n" {
		t.Errorf("GET reply = %q, want %q", got, "+v\r\n")
	}
}

func TestCommandHandler_KeysSorted(t *testing.T) {
	h, store := newTestCommandHandler()
	for _, k := range []string{"banana", "apple", "cherry"} {
		store.Set(k, "v")
	}

	want := "*3\r\n$5\r\napple\r\n$6\r\nbanana\r\n$6\r\ncherry\r\n"
	if got := handle(t, h, Keys{Pattern: "*"}); got != want {
		t.Errorf("KEYS reply = %q, want %q", got, want)
	}
}

func TestCommandHandler_KeysPattern(t *testing.T) {
	h, store := newTestCommandHandler()
	for _, k := range []string{"user:2", "user:1", "session:1"} {
		store.Set(k, "v")
	}

	want := "*2\r\n$6\r\nuser:1\r\n$6\r\nuser:2\r\n"
	if got := handle(t, h, Keys{Pattern: "user:*"}); got != want {
		t.Errorf("KEYS reply = %q, want %q", got, want)
	}
}

func TestCommandHandler_RecordsMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	h := NewCommandHandler(memory.New(), reg, nil)

	handle(t, h, Ping{})
	handle(t, h, Ping{})
	handle(t, h, Unknown{Command: "FOO"})

	if got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("PING")); got != 2 {
		t.Errorf("commands_total{PING} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("UNKNOWN")); got != 1 {
		t.Errorf("commands_total{UNKNOWN} = %v, want 1", got)
	}
}
