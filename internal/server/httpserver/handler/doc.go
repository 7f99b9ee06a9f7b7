// Package handler serves the HTTP side endpoints of memkv.
package handler
