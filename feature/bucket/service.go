package bucket

import (
	"context"
	"time"

	"object-manager/core/storage"

	"go.uber.org/zap"
)

// Info describes a bucket as reported by the backend.
type Info struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service handles bucket administration.
type Service struct {
	client storage.Client
	region string
	logger *zap.Logger
}

// NewService creates a new bucket service. Region is used for new buckets and may be empty.
func NewService(client storage.Client, region string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		region: region,
		logger: logger,
	}
}

// CreateBucket creates the bucket unless it already exists.
// The existence check and the creation are two calls and can race with a concurrent create.
func (s *Service) CreateBucket(ctx context.Context, name string) error {
	created, err := storage.EnsureBucket(ctx, s.client, name, s.region)
	if err != nil {
		s.logger.Error("Failed to create bucket", zap.String("bucket", name), zap.Error(err))
		return err
	}
	if created {
		s.logger.Info("Created bucket", zap.String("bucket", name))
	} else {
		s.logger.Debug("Bucket already exists", zap.String("bucket", name))
	}
	return nil
}

// DeleteBucket removes the bucket. The backend rejects missing or non-empty buckets.
func (s *Service) DeleteBucket(ctx context.Context, name string) error {
	if err := s.client.RemoveBucket(ctx, name); err != nil {
		s.logger.Error("Failed to delete bucket", zap.String("bucket", name), zap.Error(err))
		return storage.Wrap("delete bucket", err)
	}
	s.logger.Info("Deleted bucket", zap.String("bucket", name))
	return nil
}

// ListBuckets returns bucket names in backend order.
func (s *Service) ListBuckets(ctx context.Context) ([]string, error) {
	infos, err := s.ListBucketInfo(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, nil
}

// ListBucketInfo returns every bucket with its creation time, in backend order.
func (s *Service) ListBucketInfo(ctx context.Context) ([]Info, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, storage.Wrap("list buckets", err)
	}
	infos := make([]Info, 0, len(buckets))
	for _, b := range buckets {
		infos = append(infos, Info{Name: b.Name, CreatedAt: b.CreationDate})
	}
	return infos, nil
}

// BucketExists reports whether the bucket exists. A missing bucket is not an error.
func (s *Service) BucketExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return false, storage.Wrap("check bucket", err)
	}
	return exists, nil
}
