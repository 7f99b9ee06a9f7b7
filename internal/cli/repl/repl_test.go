package repl

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(ctx context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func runREPL(t *testing.T, input string, rec *recorder, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithInput(strings.NewReader(input)), WithOutput(&out)}, opts...)
	if err := New(rec.exec, opts...).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\nping\n"},
		{"quit command", "QUIT\nping\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			out := runREPL(t, tt.input, rec)
			if len(rec.calls) != 0 {
				t.Errorf("executor called %v after exit", rec.calls)
			}
			if !strings.HasPrefix(out, Prompt) {
				t.Errorf("output %q does not start with prompt", out)
			}
		})
	}
}

func TestREPL_Run_Dispatch(t *testing.T) {
	rec := &recorder{}
	runREPL(t, "\n\nping\nset k \"hello world\"\n  get k  \nexit\n", rec)

	want := [][]string{{"ping"}, {"set", "k", "hello world"}, {"get", "k"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	runREPL(t, "ping", rec)

	if len(rec.calls) != 1 || rec.calls[0][0] != "ping" {
		t.Errorf("calls = %v, want [[ping]]", rec.calls)
	}
}

func TestREPL_Run_ExecutorError(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	out := runREPL(t, "ping\nping\n", rec)

	if len(rec.calls) != 2 {
		t.Errorf("executor called %d times, want 2 (errors must not end the loop)", len(rec.calls))
	}
	if strings.Count(out, "Error: connection refused") != 2 {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_Run_BadQuote(t *testing.T) {
	rec := &recorder{}
	out := runREPL(t, "set k \"open\nexit\n", rec)

	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
	if !strings.Contains(out, ErrUnterminatedQuote.Error()) {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_Run_Help(t *testing.T) {
	out := runREPL(t, "help se\n", &recorder{})
	if !strings.Contains(out, "set\n") || strings.Contains(out, "get\n") {
		t.Errorf("help se output = %q", out)
	}
}

func TestREPL_Run_History(t *testing.T) {
	h := NewHistory("")
	out := runREPL(t, "ping\nget a\nhistory\n", &recorder{}, WithHistory(h))

	if !strings.Contains(out, "   1  ping\n") || !strings.Contains(out, "   2  get a\n") {
		t.Errorf("history output = %q", out)
	}
	if h.Len() != 3 {
		t.Errorf("history Len() = %d, want 3", h.Len())
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(rec.exec, WithInput(strings.NewReader("ping\n")), WithOutput(&bytes.Buffer{}))
	if err := r.Run(ctx); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"get k", []string{"get", "k"}, false},
		{"  set   k   v  ", []string{"set", "k", "v"}, false},
		{`set k "a b"`, []string{"set", "k", "a b"}, false},
		{`set k 'a "b"'`, []string{"set", "k", `a "b"`}, false},
		{`echo "line\nbreak"`, []string{"echo", "line\nbreak"}, false},
		{`echo "quote\"inside"`, []string{"echo", `quote"inside`}, false},
		{`set k ""`, []string{"set", "k", ""}, false},
		{`echo 'no\escape'`, []string{"echo", `no\escape`}, false},
		{`set k "open`, nil, true},
		{`echo "trailing\`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
