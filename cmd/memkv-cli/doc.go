// Command memkv-cli is the command-line client for memkv-server.
//
//	memkv-cli -s 127.0.0.1:6379 set greeting hello --px 5000
//	memkv-cli get greeting
//	memkv-cli -o json keys 'user:*'
//	memkv-cli repl
package main
