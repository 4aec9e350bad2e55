// Package api exposes a controller over HTTP: configuration reads and updates,
// address encoding and decoding, frame creation, Prometheus metrics and,
// optionally, the proxy bundle files.
package api
