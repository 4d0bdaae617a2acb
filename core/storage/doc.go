// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface covering what snapshot-sync
// needs: reading incoming snapshots, uploading reconciliation reports and listing both.
// It works against AWS S3 and self-hosted MinIO alike.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the configured bucket on first use.
//   - ListPrefix: collects the objects under a prefix into ObjectSummary values.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
