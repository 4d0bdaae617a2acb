// Package server holds the HTTP server configuration.
//
// While the start command handles the server lifecycle, this package defines the
// configuration structure and its validation.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the request body limit.
// Snapshots are posted as whole JSON arrays, so the body limit is larger than
// Fiber's default.
package server
