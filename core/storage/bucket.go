package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
)

// EnsureBucket creates the bucket when it does not exist yet and reports whether it did.
// The check and the create are separate calls, so two concurrent callers can both
// try to create; the loser gets a KindConflict error.
func EnsureBucket(ctx context.Context, client Client, name, region string) (bool, error) {
	exists, err := client.BucketExists(ctx, name)
	if err != nil {
		return false, Wrap("check bucket", err)
	}
	if exists {
		return false, nil
	}
	if err := client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: region}); err != nil {
		return false, Wrap("create bucket", err)
	}
	return true, nil
}
