// Package storage persists diff artifacts (the visualization PNG and the
// stats text) behind a backend-neutral interface. The file backend serves
// local runs; the S3 backend serves the worker and server deployments.
package storage

import (
	"context"
)

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves data from a storage URL returned by Put. The loader
	// uses it to resolve s3:// heightmap references.
	Get(ctx context.Context, url string) ([]byte, error)
}
