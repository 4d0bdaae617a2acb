// Package records diffs schemaless JSON snapshots.
//
// Records are elements of a JSON array. Their key and optional timestamp are read
// with gjson paths (for example "sku" or "meta.updated_at"), so any document shape
// can be reconciled without declaring a Go type for it. The timestamp path is
// excluded from content comparison.
//
//	POST /records/diff
//	{
//	    "existing": [{"sku": "a-1", "qty": 3}],
//	    "incoming": [{"sku": "a-1", "qty": 4}],
//	    "key_path": "sku",
//	    "policy": "content-changed"
//	}
//
// The response carries the classification and a SHA-256 digest of the canonical
// form of every inserted or updated record.
package records
