// Command memkv-server runs the memkv in-memory key-value store.
//
// It speaks the Redis serialization protocol on server.redis.addr and,
// when server.http.enabled is set, serves /metrics and /health on a
// separate HTTP listener.
//
// Usage:
//
//	memkv-server [-config memkv.yaml] [-addr host:port] [-dir path] [-dbfilename name]
//
// Configuration is layered: defaults, then the YAML file, then MEMKV_*
// environment variables, then flags. Editing the config file or sending
// SIGHUP re-applies log.level without a restart.
package main
