// Package config provides configuration management for snapshot-sync.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every key is registered with the default declared in its `default` struct tag, so
// an empty environment still yields a usable configuration.
//
// # Configuration Structure
//
// The Config struct is divided into subsections, each owned by the package that uses it:
//   - Server: HTTP port, API key and body limit
//   - Database: catalog database driver and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: logging level and format
//   - Reconcile: default policy, batching and canonicalization options
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Reconcile.Policy)
package config
