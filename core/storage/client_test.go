package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"snapshot-sync/core/storage"
	"snapshot-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "snapshots", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(false, nil)
		client.On("MakeBucket", ctx, "snapshots", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "snapshots", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, client, "snapshots", "")
		assert.ErrorContains(t, err, "failed to check bucket snapshots")
	})
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Lists", func(t *testing.T) {
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "reports/a.json", Size: 10, LastModified: now}
		ch <- minio.ObjectInfo{Key: "reports/b.json", Size: 20, LastModified: now}
		close(ch)

		client := new(mocks.Client)
		client.On("ListObjects", ctx, "snapshots", minio.ListObjectsOptions{Prefix: "reports/", Recursive: true}).
			Return((<-chan minio.ObjectInfo)(ch))

		objects, err := storage.ListPrefix(ctx, client, "snapshots", "reports/")
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, storage.ObjectSummary{Key: "reports/b.json", Size: 20, LastModified: now}, objects[1])
	})

	t.Run("ListError", func(t *testing.T) {
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("boom")}
		close(ch)

		client := new(mocks.Client)
		client.On("ListObjects", ctx, "snapshots", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := storage.ListPrefix(ctx, client, "snapshots", "")
		assert.ErrorContains(t, err, "boom")
	})
}
