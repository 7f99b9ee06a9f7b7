// Package confloader provides configuration loading mechanism.
//
// This package implements a layered configuration loader using koanf as the
// underlying library.
//
// Features:
//
//   - Multiple Sources: defaults, YAML files, environment variables, overrides
//   - Watch Support: fsnotify-based notification when the config file changes
//   - Reload: Load can be called again to rebuild from every layer
//   - Type Safety: Unmarshaling into typed structs via koanf tags
//
// Priority (highest to lowest):
//
//  1. Command-line flags (overrides)
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
