package config

import "time"

// CLIConfig is the configuration for memkv-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"` // table, json, yaml
	Timeout       time.Duration `yaml:"timeout"`

	// Profiles are named servers selected with --profile.
	Profiles map[string]Profile `yaml:"profiles"`

	// CurrentProfile is used when --profile is not given.
	CurrentProfile string `yaml:"current_profile"`
}

// Profile is a saved server.
type Profile struct {
	Server string `yaml:"server"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "127.0.0.1:6379",
		DefaultOutput: "table",
		Timeout:       5 * time.Second,
		Profiles:      make(map[string]Profile),
	}
}
