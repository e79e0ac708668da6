// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the bucket and
// file features can be tested against mocks. This abstraction supports both
// AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider (see
// core/storage/mocks for a testify mock and an in-memory fake).
//
//   - Buckets: BucketExists, MakeBucket, RemoveBucket, ListBuckets.
//   - Objects: PutObject, GetObject, StatObject, ListObjects, RemoveObject.
//   - Access: PresignedGetObject, GetBucketPolicy, SetBucketPolicy.
//
// # Errors
//
// Wrap converts SDK errors into *BackendError, classifying the S3 error code
// into a Kind (not found, conflict, permission denied, ...).
//
// # Policies
//
// PublicReadPolicy and MergePublicRead build bucket policy documents that
// grant anonymous read on a single object.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "uploads")
package storage
