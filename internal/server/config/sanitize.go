package config

// Sanitize returns the effective configuration as slog key/value pairs.
//
// This is used for logging the configuration at startup. Every key is the
// dotted path accepted by the loader.
func Sanitize(cfg *ServerConfig) []any {
	return []any{
		"server.redis.addr", cfg.Server.Redis.Addr,
		"server.redis.read_buffer_size", cfg.Server.Redis.ReadBufferSize,
		"server.redis.max_request_bytes", cfg.Server.Redis.MaxRequestBytes,
		"server.redis.rate_limit", cfg.Server.Redis.RateLimit,
		"server.http.enabled", cfg.Server.HTTP.Enabled,
		"server.http.addr", cfg.Server.HTTP.Addr,
		"storage.shards", cfg.Storage.Shards,
		"storage.sweep_interval", cfg.Storage.SweepInterval.String(),
		"storage.dir", cfg.Storage.Dir,
		"storage.dbfilename", cfg.Storage.DBFilename,
		"log.level", cfg.Log.Level,
		"log.format", cfg.Log.Format,
	}
}
