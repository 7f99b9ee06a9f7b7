// Package repl implements the interactive mode of memkv-cli.
//
// Each input line is split into words (double and single quotes group
// words, backslash escapes inside double quotes) and handed to an
// Executor. Built-in lines:
//
//	help [prefix]   list commands, or those starting with prefix
//	history         show previous lines
//	exit, quit      leave
package repl
