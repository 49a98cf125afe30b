// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface. The preview
// service keeps outfit base images, mask images and textures in a bucket, and
// writes rendered previews back to it. Both AWS S3 and self-hosted MinIO work.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Helpers
//
//   - ReadObject: downloads an object into memory, mapping NoSuchKey to ErrNotFound.
//   - WriteObject: uploads a byte slice with a content type.
//   - ListKeys: lists object keys under a prefix.
//   - EnsureBucket: creates the bucket when missing.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	data, err := storage.ReadObject(ctx, client, "assets", "textures/1.jpg")
package storage
