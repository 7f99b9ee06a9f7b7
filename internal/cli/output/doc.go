// Package output renders command results for memkv-cli.
//
// Three formats are supported: table (redis-cli style, colored when the
// output is a terminal), json and yaml. Results are plain Go values:
// nil for a missing value, string, int, []string, []any or
// map[string]string.
package output
