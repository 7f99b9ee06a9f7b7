// Package connection talks RESP to a memkv server for memkv-cli.
//
// Client encodes each request as an array of bulk strings and reads one
// reply with github.com/tidwall/resp. Manager holds the single lazily
// dialed connection a CLI invocation or REPL session reuses.
package connection
