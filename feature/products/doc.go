// Package products implements the products feature: a catalog of priced products
// kept in sync with incoming snapshots.
//
// # Components
//
//   - Product: the entity, keyed by ID, with an optional LastModified timestamp.
//   - Generator: builds demo catalogs and derived snapshots for canned scenarios.
//   - Store: gorm persistence, usable as an apply.Mutator.
//   - Service: loads the existing snapshot (cached), runs the reconcile engine,
//     applies the result in one transaction and uploads reports.
//   - Handler: the HTTP routes under /products.
//
// # Routes
//
//	POST /products/reconcile          body: []Product
//	POST /products/reconcile/object   ?object=snapshots/products.json
//	POST /products/diff               body: {"existing": [...], "incoming": [...]}
//	GET  /products/reports
//
// The reconcile routes accept policy, dry_run and report query parameters, and the
// object route also takes batch_size. The diff route only takes policy.
package products
