// Package middleware groups the HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns every request a ray id, stored in the context under "ray_id"
//     and echoed in the X-Ray-ID response header for tracing.
//
// RayID is registered first so that every log line, including auth failures, carries it.
package middleware
