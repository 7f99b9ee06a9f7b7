package repl

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("")
	if h.maxSize != defaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, defaultHistorySize)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory("")

	h.Add("command1")
	h.Add("command2")
	h.Add("command2") // repeat collapses
	h.Add("command3")

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "command3"},
		{1, "command2"},
		{2, "command1"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := &History{maxSize: 3}

	for _, cmd := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(cmd)
	}

	if want := []string{"cmd2", "cmd3", "cmd4"}; !reflect.DeepEqual(h.Entries(), want) {
		t.Errorf("Entries() = %v, want %v", h.Entries(), want)
	}
}

func TestHistory_InMemoryLoadSave(t *testing.T) {
	h := NewHistory("")
	h.Add("ping")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(path)
	h.Add("set a 1")
	h.Add("get a")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"set a 1", "get a"}; !reflect.DeepEqual(loaded.Entries(), want) {
		t.Errorf("Entries() = %v, want %v", loaded.Entries(), want)
	}
}

func TestHistory_Load_Missing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() of missing file error = %v", err)
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	path := DefaultHistoryPath()
	if filepath.Base(path) != "history" || filepath.Base(filepath.Dir(path)) != ".memkv" {
		t.Errorf("DefaultHistoryPath() = %q", path)
	}
}
