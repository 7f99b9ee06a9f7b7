package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/memkv/internal/server/redisserver"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Check server defaults
	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Server.Redis.Addr, DefaultRedisAddr)
	}
	if cfg.Server.Redis.ReadBufferSize != 1024 {
		t.Errorf("Redis.ReadBufferSize = %d, want 1024", cfg.Server.Redis.ReadBufferSize)
	}
	if cfg.Server.Redis.MaxRequestBytes != 1114112 {
		t.Errorf("Redis.MaxRequestBytes = %d, want 1114112", cfg.Server.Redis.MaxRequestBytes)
	}
	if cfg.Server.Redis.RateLimit != 0 {
		t.Errorf("Redis.RateLimit = %d, want 0", cfg.Server.Redis.RateLimit)
	}
	if cfg.Server.HTTP.Enabled {
		t.Error("HTTP should be disabled by default")
	}
	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}

	// Check storage defaults
	if cfg.Storage.Shards != 1 {
		t.Errorf("Shards = %d, want 1", cfg.Storage.Shards)
	}
	if cfg.Storage.SweepInterval != 0 {
		t.Errorf("SweepInterval = %v, want 0", cfg.Storage.SweepInterval)
	}
	if cfg.Storage.Dir != DefaultDir {
		t.Errorf("Dir = %q, want %q", cfg.Storage.Dir, DefaultDir)
	}
	if cfg.Storage.DBFilename != DefaultDBFilename {
		t.Errorf("DBFilename = %q, want %q", cfg.Storage.DBFilename, DefaultDBFilename)
	}

	// Check log defaults
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Verify(Default()); err != nil {
		t.Fatalf("Verify(Default()) error = %v", err)
	}
}

func TestDefaultMap(t *testing.T) {
	m := DefaultMap()

	want := map[string]any{
		"server.redis.addr":      DefaultRedisAddr,
		"server.http.enabled":    false,
		"storage.sweep_interval": "0s",
		"storage.dir":            DefaultDir,
		"log.level":              DefaultLogLevel,
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("DefaultMap()[%q] = %v, want %v", k, m[k], v)
		}
	}
	if len(m) != 12 {
		t.Errorf("len(DefaultMap()) = %d, want 12", len(m))
	}
}

func TestParameters(t *testing.T) {
	cfg := Default()
	cfg.Storage.Dir = "/data"
	cfg.Storage.DBFilename = "x.rdb"

	p := cfg.Parameters()
	if p["dir"] != "/data" || p["dbfilename"] != "x.rdb" || len(p) != 2 {
		t.Errorf("Parameters() = %v", p)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Storage.SweepInterval = 5 * time.Second

	kv := Sanitize(cfg)
	if len(kv)%2 != 0 {
		t.Fatalf("Sanitize() returned %d items, want key/value pairs", len(kv))
	}

	got := make(map[string]any)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			t.Fatalf("key at %d is %T, want string", i, kv[i])
		}
		got[k] = kv[i+1]
	}

	if got["server.redis.addr"] != DefaultRedisAddr {
		t.Errorf("server.redis.addr = %v", got["server.redis.addr"])
	}
	if got["storage.sweep_interval"] != "5s" {
		t.Errorf("storage.sweep_interval = %v, want 5s", got["storage.sweep_interval"])
	}
	for k := range DefaultMap() {
		if _, ok := got[k]; !ok {
			t.Errorf("Sanitize() missing key %q", k)
		}
	}
}

func TestVerify_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
		field  string
	}{
		{"empty redis addr", func(c *ServerConfig) { c.Server.Redis.Addr = "" }, "server.redis.addr"},
		{"redis addr without port", func(c *ServerConfig) { c.Server.Redis.Addr = "localhost" }, "server.redis.addr"},
		{"tiny read buffer", func(c *ServerConfig) { c.Server.Redis.ReadBufferSize = 1 }, "server.redis.read_buffer_size"},
		{"tiny request limit", func(c *ServerConfig) { c.Server.Redis.MaxRequestBytes = 10 }, "server.redis.max_request_bytes"},
		{"request limit below one bulk value", func(c *ServerConfig) {
			c.Server.Redis.MaxRequestBytes = MinMaxRequestBytes - 1
		}, "server.redis.max_request_bytes"},
		{"negative rate limit", func(c *ServerConfig) { c.Server.Redis.RateLimit = -1 }, "server.redis.rate_limit"},
		{"bad http addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "nope" }, "server.http.addr"},
		{"zero shards", func(c *ServerConfig) { c.Storage.Shards = 0 }, "storage.shards"},
		{"too many shards", func(c *ServerConfig) { c.Storage.Shards = 4096 }, "storage.shards"},
		{"negative sweep", func(c *ServerConfig) { c.Storage.SweepInterval = -time.Second }, "storage.sweep_interval"},
		{"empty dir", func(c *ServerConfig) { c.Storage.Dir = "" }, "storage.dir"},
		{"empty dbfilename", func(c *ServerConfig) { c.Storage.DBFilename = "" }, "storage.dbfilename"},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
		{"http enabled without addr", func(c *ServerConfig) {
			c.Server.HTTP.Enabled = true
			c.Server.HTTP.Addr = ""
		}, "server.http.addr"},
		{"http addr conflicts with redis", func(c *ServerConfig) {
			c.Server.HTTP.Enabled = true
			c.Server.HTTP.Addr = c.Server.Redis.Addr
		}, "server.http.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() error = nil, want error")
			}

			var fe FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("Verify() error type = %T, want FieldErrors", err)
			}
			found := false
			for _, f := range fe {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Verify() errors %v do not name %q", fe, tt.field)
			}
		})
	}
}

func TestRequestLimitsMatchDecoder(t *testing.T) {
	if MinMaxRequestBytes != redisserver.MinRequestBytes {
		t.Errorf("MinMaxRequestBytes = %d, want redisserver.MinRequestBytes %d",
			MinMaxRequestBytes, redisserver.MinRequestBytes)
	}
	if DefaultMaxRequestBytes != redisserver.DefaultMaxRequestBytes {
		t.Errorf("DefaultMaxRequestBytes = %d, want redisserver.DefaultMaxRequestBytes %d",
			DefaultMaxRequestBytes, redisserver.DefaultMaxRequestBytes)
	}

	cfg := Default()
	cfg.Server.Redis.MaxRequestBytes = MinMaxRequestBytes
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() at the minimum limit error = %v", err)
	}
}

func TestVerify_ReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Storage.Shards = 0
	cfg.Log.Level = "loud"

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() error = nil, want error")
	}

	msg := err.Error()
	for _, want := range []string{"storage.shards", "log.level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestVerify_HTTPDisabledIgnoresConflict(t *testing.T) {
	cfg := Default()
	cfg.Server.HTTP.Addr = cfg.Server.Redis.Addr

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v, want nil while HTTP is disabled", err)
	}
}

func TestVerify_WarningLevelAccepted(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warning"
	cfg.Log.Format = "console"

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
