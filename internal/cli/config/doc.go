// Package config reads the optional memkv-cli settings file
// (~/.memkv/cli.yaml): default server, default output format, request
// timeout and named server profiles.
package config
