package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultServer != "127.0.0.1:6379" {
		t.Errorf("DefaultServer = %q, want %q", cfg.DefaultServer, "127.0.0.1:6379")
	}
	if cfg.DefaultOutput != "table" {
		t.Errorf("DefaultOutput = %q, want %q", cfg.DefaultOutput, "table")
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Profiles == nil || len(cfg.Profiles) != 0 {
		t.Errorf("Profiles = %v, want empty map", cfg.Profiles)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("DefaultConfigPath() = %q, want absolute", path)
	}
	if !strings.HasSuffix(path, filepath.Join(".memkv", "cli.yaml")) {
		t.Errorf("DefaultConfigPath() = %q, want .memkv/cli.yaml suffix", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.DefaultServer != Default().DefaultServer {
		t.Error("Should return default config for nonexistent file")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
default_output: json
timeout: 2s
current_profile: dev
profiles:
  dev:
    server: 127.0.0.1:7000
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultOutput != "json" {
		t.Errorf("DefaultOutput = %q, want json", cfg.DefaultOutput)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Timeout)
	}
	// Absent fields keep defaults
	if cfg.DefaultServer != "127.0.0.1:6379" {
		t.Errorf("DefaultServer = %q, want default", cfg.DefaultServer)
	}
	if server, err := cfg.Server(""); err != nil || server != "127.0.0.1:7000" {
		t.Errorf("Server(\"\") = %q, %v, want current profile", server, err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("profiles: [unclosed"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "cli.yaml")

	cfg := Default()
	cfg.Profiles["prod"] = Profile{Server: "10.0.0.1:6379"}
	cfg.Timeout = time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if back.Profiles["prod"].Server != "10.0.0.1:6379" || back.Timeout != time.Second {
		t.Errorf("round trip = %+v", back)
	}
}

func TestCLIConfig_Server(t *testing.T) {
	cfg := Default()
	cfg.Profiles["a"] = Profile{Server: "a:6379"}

	tests := []struct {
		name    string
		current string
		profile string
		want    string
		wantErr bool
	}{
		{"default", "", "", "127.0.0.1:6379", false},
		{"explicit profile", "", "a", "a:6379", false},
		{"current profile", "a", "", "a:6379", false},
		{"unknown profile", "", "b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.CurrentProfile = tt.current
			got, err := cfg.Server(tt.profile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Server(%q) error = %v, wantErr %v", tt.profile, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Server(%q) = %q, want %q", tt.profile, got, tt.want)
			}
		})
	}
}
