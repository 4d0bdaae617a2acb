// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections from
// the application's configuration. The database is where callers persist a
// reconciliation result; the reconcile core itself never touches it.
//
// # Connect
//
// Connect opens the configured driver, tunes the connection pool and pings the
// database. SQLite is limited to one open connection so ":memory:" databases keep
// their schema.
//
// # Schema Inspection
//
// GetTableColumns reads column definitions (SHOW COLUMNS on MySQL, PRAGMA table_info
// on SQLite). MissingColumns is used by stores to refuse applying a result against a
// table that lacks required columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "products", "id", "name", "price")
package database
