package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"snapshot-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ReadObject loads a whole snapshot from object storage. The format follows the
// object name extension.
func ReadObject[E any](ctx context.Context, client storage.Client, bucket, object string) ([]E, error) {
	format, err := FormatFromPath(object)
	if err != nil {
		return nil, err
	}

	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", object, err)
	}
	defer reader.Close()

	return Decode[E](reader, format)
}

// StreamObject decodes a JSON array stored in object storage one element at a time,
// so the array never has to fit in memory. The object is closed when the sequence
// ends or the consumer stops early.
func StreamObject[E any](ctx context.Context, client storage.Client, bucket, object string) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E

		reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
		if err != nil {
			yield(zero, fmt.Errorf("failed to get object %s: %w", object, err))
			return
		}
		defer reader.Close()

		dec := json.NewDecoder(reader)
		tok, err := dec.Token()
		if err != nil {
			yield(zero, fmt.Errorf("failed to read object %s: %w", object, err))
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			yield(zero, fmt.Errorf("object %s is not a json array", object))
			return
		}

		for dec.More() {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}
			var entity E
			if err := dec.Decode(&entity); err != nil {
				yield(zero, fmt.Errorf("failed to decode element of %s: %w", object, err))
				return
			}
			if !yield(entity, nil) {
				return
			}
		}

		if _, err := dec.Token(); err != nil {
			yield(zero, fmt.Errorf("failed to read end of %s: %w", object, err))
		}
	}
}

// WriteObject stores v as indented JSON.
func WriteObject(ctx context.Context, client storage.Client, bucket, object string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", object, err)
	}

	_, err = client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", object, err)
	}
	return nil
}
