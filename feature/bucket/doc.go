// Package bucket implements bucket administration.
//
// Every operation is a single synchronous call to the storage client; nothing
// is cached and no local state is kept.
//
// # Components
//
//   - Service: CreateBucket (idempotent), DeleteBucket, ListBuckets, BucketExists.
//   - Handler: Exposes the service over HTTP.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /buckets : List bucket names.
//   - POST /buckets/:bucket : Create a bucket if it does not exist.
//   - DELETE /buckets/:bucket : Delete an empty bucket.
//   - GET /buckets/:bucket/exists : Report whether a bucket exists.
package bucket
