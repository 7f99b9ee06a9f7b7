package config

import "time"

// ServerConfig is the root configuration for memkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the Redis protocol server.
type RedisConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`

	// ReadBufferSize is the size of a single socket read.
	ReadBufferSize int `koanf:"read_buffer_size" validate:"min=16,max=1048576"`

	// MaxRequestBytes bounds the bytes buffered for one incomplete request.
	// It must leave room for a maximum-size bulk value and its framing.
	MaxRequestBytes int `koanf:"max_request_bytes" validate:"min=589824"`

	// RateLimit is commands per second per connection; 0 disables it.
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

// HTTPConfig configures the metrics and health side server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards is the number of independently locked partitions.
	Shards int `koanf:"shards" validate:"min=1,max=1024"`

	// SweepInterval enables the background expiry sweeper when positive.
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"min=0"`

	// Dir and DBFilename are reported by CONFIG GET. Nothing is written there.
	Dir        string `koanf:"dir" validate:"required"`
	DBFilename string `koanf:"dbfilename" validate:"required"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=json text console"`
}

// Parameters returns the mapping served by CONFIG GET.
func (c *ServerConfig) Parameters() map[string]string {
	return map[string]string{
		"dir":        c.Storage.Dir,
		"dbfilename": c.Storage.DBFilename,
	}
}
