// Package command defines the memkv-cli commands with urfave/cli/v2.
//
// Every command maps onto one server request: ping, echo, set, get,
// keys and config get. The repl command runs the same command set
// interactively over one shared connection.
package command
