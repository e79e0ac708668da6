package file

import (
	"bytes"
	"context"
	"io"
	"time"

	"object-manager/core/storage"
	"object-manager/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// URLExpiry is how long a generated download URL stays valid.
const URLExpiry = 2 * time.Hour

const defaultContentType = "application/octet-stream"

// Upload is a file to store. Size must be the exact body length, or negative
// when unknown, in which case the body is buffered in memory first.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	VersionID string `json:"versionId"`
	ETag      string `json:"etag"`
	Bucket    string `json:"bucket"`
}

// SignedURL wraps a presigned download URL.
type SignedURL struct {
	URL string `json:"url"`
}

// ObjectStat is the metadata the backend reports for an object.
type ObjectStat struct {
	Bucket       string    `json:"bucket"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	ContentType  string    `json:"contentType"`
	VersionID    string    `json:"versionId,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Options controls how filenames become keys and how public grants are applied.
type Options struct {
	// Region is used for buckets created on upload.
	Region string
	// EncodeKeys form-encodes filenames for uploads and URL generation.
	EncodeKeys bool
	// ReplacePolicy overwrites the bucket policy on MakeObjectPublic instead of merging.
	ReplacePolicy bool
}

// Service handles file transfer operations.
type Service struct {
	client storage.Client
	opts   Options
	logger *zap.Logger
}

// NewService creates a new file service.
func NewService(client storage.Client, opts Options, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// UploadFile stores the upload under its filename, creating the bucket first if needed.
func (s *Service) UploadFile(ctx context.Context, bucket string, up Upload) (*UploadResult, error) {
	created, err := storage.EnsureBucket(ctx, s.client, bucket, s.opts.Region)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Created bucket for upload", zap.String("bucket", bucket))
	}

	body, size := up.Body, up.Size
	if size < 0 {
		data, err := io.ReadAll(up.Body)
		if err != nil {
			return nil, storage.Wrap("read upload", err)
		}
		body, size = bytes.NewReader(data), int64(len(data))
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := utils.ObjectKey(up.Filename, s.opts.EncodeKeys)
	info, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, storage.Wrap("upload file", err)
	}

	s.logger.Info("Uploaded file",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", size))

	return &UploadResult{
		VersionID: info.VersionID,
		ETag:      info.ETag,
		Bucket:    info.Bucket,
	}, nil
}

// DeleteFile removes an object.
func (s *Service) DeleteFile(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return storage.Wrap("delete file", err)
	}
	s.logger.Info("Deleted file", zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

// ListFiles returns every object key in the bucket in listing order.
// The first listing error aborts the whole call.
func (s *Service) ListFiles(ctx context.Context, bucket string) ([]string, error) {
	// Cancelling stops the lister goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := []string{}
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, storage.Wrap("list files", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// DownloadFile opens the object for reading. The caller must close the stream.
func (s *Service) DownloadFile(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	body, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, storage.Wrap("download file", err)
	}
	return body, nil
}

// GenerateFileURL signs a GET URL for the file, valid for URLExpiry.
// The filename is mapped to a key the same way uploads map it.
func (s *Service) GenerateFileURL(ctx context.Context, bucket, filename string) (*SignedURL, error) {
	key := utils.ObjectKey(filename, s.opts.EncodeKeys)
	u, err := s.client.PresignedGetObject(ctx, bucket, key, URLExpiry, nil)
	if err != nil {
		return nil, storage.Wrap("generate file url", err)
	}
	return &SignedURL{URL: u.String()}, nil
}

// MakeObjectPublic grants anonymous read on one object through the bucket policy.
// Unless ReplacePolicy is set, grants already in the policy are kept.
func (s *Service) MakeObjectPublic(ctx context.Context, bucket, key string) error {
	var (
		doc string
		err error
	)
	if s.opts.ReplacePolicy {
		doc, err = storage.PublicReadPolicy(bucket, key)
	} else {
		doc, err = s.mergedPolicy(ctx, bucket, key)
	}
	if err != nil {
		return storage.Wrap("make file public", err)
	}

	if err := s.client.SetBucketPolicy(ctx, bucket, doc); err != nil {
		return storage.Wrap("make file public", err)
	}
	s.logger.Info("Granted public read",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Bool("replaced", s.opts.ReplacePolicy))
	return nil
}

func (s *Service) mergedPolicy(ctx context.Context, bucket, key string) (string, error) {
	existing, err := s.client.GetBucketPolicy(ctx, bucket)
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchBucketPolicy" {
		return "", err
	}
	return storage.MergePublicRead(existing, bucket, key)
}

// StatFile returns the object's metadata.
func (s *Service) StatFile(ctx context.Context, bucket, key string) (*ObjectStat, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, storage.Wrap("stat file", err)
	}
	return &ObjectStat{
		Bucket:       bucket,
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		VersionID:    info.VersionID,
		LastModified: info.LastModified,
	}, nil
}
