// Package utils provides loose value conversion helpers shared by the HTTP handlers
// and the records feature, where values arrive as query strings or decoded JSON.
package utils
