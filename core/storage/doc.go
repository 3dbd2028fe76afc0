// Package storage provides an abstraction layer for the managed key-value
// store behind the correction service.
//
// It wraps the MinIO Go client to provide a simplified interface for the few
// operations the corrections document needs: checking bucket access, creating
// the bucket on first use, and reading/writing the document object. This
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "corrections")
package storage
