// Package snapshot loads snapshots for reconciliation.
//
// # Sources
//
//   - Files: ReadFile decodes a JSON or YAML array, chosen by extension.
//   - Object storage: ReadObject loads a whole object; StreamObject yields the elements
//     of a JSON array one by one and plugs straight into reconcile.Batches.
//
// # Cache
//
// Cache keeps an existing snapshot in memory for a TTL, with singleflight protection
// against concurrent loads of the same key.
package snapshot
