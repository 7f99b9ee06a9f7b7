package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr       = "127.0.0.1:6379"
	DefaultReadBufferSize  = 1024
	DefaultMaxRequestBytes = 2*512*1024 + 64*1024

	// MinMaxRequestBytes admits one 512KB bulk value plus 64KB of framing,
	// key and arguments. It must match the validate tag on MaxRequestBytes.
	MinMaxRequestBytes = 512*1024 + 64*1024

	DefaultHTTPAddr = "127.0.0.1:9121"

	DefaultShards        = 1
	DefaultSweepInterval = time.Duration(0)
	DefaultDir           = "/tmp/memkv"
	DefaultDBFilename    = "dump.rdb"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:            DefaultRedisAddr,
				ReadBufferSize:  DefaultReadBufferSize,
				MaxRequestBytes: DefaultMaxRequestBytes,
			},
			HTTP: HTTPConfig{
				Enabled: false,
				Addr:    DefaultHTTPAddr,
			},
		},
		Storage: StorageSection{
			Shards:        DefaultShards,
			SweepInterval: DefaultSweepInterval,
			Dir:           DefaultDir,
			DBFilename:    DefaultDBFilename,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults keyed by their dotted koanf paths, suitable
// as the lowest-priority layer of a confloader.Loader.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server.redis.addr":              d.Server.Redis.Addr,
		"server.redis.read_buffer_size":  d.Server.Redis.ReadBufferSize,
		"server.redis.max_request_bytes": d.Server.Redis.MaxRequestBytes,
		"server.redis.rate_limit":        d.Server.Redis.RateLimit,
		"server.http.enabled":            d.Server.HTTP.Enabled,
		"server.http.addr":               d.Server.HTTP.Addr,
		"storage.shards":                 d.Storage.Shards,
		"storage.sweep_interval":         d.Storage.SweepInterval.String(),
		"storage.dir":                    d.Storage.Dir,
		"storage.dbfilename":             d.Storage.DBFilename,
		"log.level":                      d.Log.Level,
		"log.format":                     d.Log.Format,
	}
}
