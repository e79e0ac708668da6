package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"object-manager/core/storage"
	"object-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockService(opts Options) (*Service, *mocks.Client) {
	mockClient := new(mocks.Client)
	return NewService(mockClient, opts, zap.NewNop()), mockClient
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestService_UploadFile(t *testing.T) {
	t.Run("EncodedKey", func(t *testing.T) {
		svc, mockClient := newMockService(Options{EncodeKeys: true})

		mockClient.On("BucketExists", mock.Anything, "uploads").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, "uploads", "q1+report.pdf", mock.Anything, int64(10),
			minio.PutObjectOptions{ContentType: "application/pdf"}).
			Return(minio.UploadInfo{Bucket: "uploads", ETag: "abc", VersionID: "v1"}, nil)

		result, err := svc.UploadFile(context.Background(), "uploads", Upload{
			Filename:    "q1 report.pdf",
			ContentType: "application/pdf",
			Size:        10,
			Body:        bytes.NewReader(make([]byte, 10)),
		})
		require.NoError(t, err)
		assert.Equal(t, &UploadResult{VersionID: "v1", ETag: "abc", Bucket: "uploads"}, result)
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RawKeyAndBucketCreated", func(t *testing.T) {
		svc, mockClient := newMockService(Options{Region: "eu-west-1"})

		mockClient.On("BucketExists", mock.Anything, "uploads").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "uploads", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
		mockClient.On("PutObject", mock.Anything, "uploads", "q1 report.pdf", mock.Anything, int64(3),
			minio.PutObjectOptions{ContentType: defaultContentType}).
			Return(minio.UploadInfo{Bucket: "uploads"}, nil)

		_, err := svc.UploadFile(context.Background(), "uploads", Upload{
			Filename: "q1 report.pdf",
			Size:     3,
			Body:     strings.NewReader("abc"),
		})
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("UnknownSizeIsBuffered", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		mockClient.On("BucketExists", mock.Anything, "uploads").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, "uploads", "notes.txt", mock.Anything, int64(5), mock.Anything).
			Return(minio.UploadInfo{Bucket: "uploads"}, nil)

		_, err := svc.UploadFile(context.Background(), "uploads", Upload{
			Filename: "notes.txt",
			Size:     -1,
			Body:     io.MultiReader(strings.NewReader("he"), strings.NewReader("llo")),
		})
		require.NoError(t, err)
	})

	t.Run("UnreadableBody", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})
		mockClient.On("BucketExists", mock.Anything, "uploads").Return(true, nil)

		_, err := svc.UploadFile(context.Background(), "uploads", Upload{Filename: "x", Size: -1, Body: failingReader{}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejected", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})
		mockClient.On("BucketExists", mock.Anything, "uploads").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden})

		_, err := svc.UploadFile(context.Background(), "uploads", Upload{Filename: "x", Size: 0, Body: strings.NewReader("")})
		assert.Equal(t, storage.KindPermissionDenied, storage.KindOf(err))
	})
}

func TestService_ListFiles(t *testing.T) {
	t.Run("Keys", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "a.txt"}
		ch <- minio.ObjectInfo{Key: "dir/b.txt"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "uploads", minio.ListObjectsOptions{Recursive: true}).
			Return((<-chan minio.ObjectInfo)(ch))

		keys, err := svc.ListFiles(context.Background(), "uploads")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "dir/b.txt"}, keys)
	})

	t.Run("EmptyBucket", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		ch := make(chan minio.ObjectInfo)
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "uploads", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		keys, err := svc.ListFiles(context.Background(), "uploads")
		require.NoError(t, err)
		assert.NotNil(t, keys)
		assert.Empty(t, keys)
	})

	t.Run("ItemErrorAborts", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		ch := make(chan minio.ObjectInfo, 3)
		ch <- minio.ObjectInfo{Key: "a.txt"}
		ch <- minio.ObjectInfo{Err: minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}}
		ch <- minio.ObjectInfo{Key: "c.txt"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "uploads", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		keys, err := svc.ListFiles(context.Background(), "uploads")
		assert.Nil(t, keys)
		assert.True(t, storage.IsNotFound(err))
	})
}

func TestService_DownloadFile(t *testing.T) {
	svc, mockClient := newMockService(Options{})

	mockClient.On("GetObject", mock.Anything, "uploads", "a.txt", mock.Anything).
		Return(io.NopCloser(strings.NewReader("hello")), nil)
	mockClient.On("GetObject", mock.Anything, "uploads", "missing.txt", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})

	body, err := svc.DownloadFile(context.Background(), "uploads", "a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoError(t, body.Close())

	_, err = svc.DownloadFile(context.Background(), "uploads", "missing.txt")
	assert.True(t, storage.IsNotFound(err))
}

func TestService_DeleteFile(t *testing.T) {
	svc, mockClient := newMockService(Options{})

	mockClient.On("RemoveObject", mock.Anything, "uploads", "a.txt", mock.Anything).Return(nil)
	mockClient.On("RemoveObject", mock.Anything, "uploads", "b.txt", mock.Anything).Return(assert.AnError)

	assert.NoError(t, svc.DeleteFile(context.Background(), "uploads", "a.txt"))
	assert.Error(t, svc.DeleteFile(context.Background(), "uploads", "b.txt"))
	mockClient.AssertNotCalled(t, "StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GenerateFileURL(t *testing.T) {
	t.Run("TwoHoursEncodedKey", func(t *testing.T) {
		svc, mockClient := newMockService(Options{EncodeKeys: true})

		signed, _ := url.Parse("http://localhost:9000/uploads/q1%2Breport.pdf?X-Amz-Expires=7200")
		mockClient.On("PresignedGetObject", mock.Anything, "uploads", "q1+report.pdf", 2*time.Hour, url.Values(nil)).
			Return(signed, nil)

		result, err := svc.GenerateFileURL(context.Background(), "uploads", "q1 report.pdf")
		require.NoError(t, err)
		assert.Equal(t, signed.String(), result.URL)
	})

	t.Run("RawKeyMatchesRawUpload", func(t *testing.T) {
		svc, mockClient := newMockService(Options{EncodeKeys: false})

		mockClient.On("BucketExists", mock.Anything, "uploads").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, "uploads", "q1 report.pdf", mock.Anything, int64(2), mock.Anything).
			Return(minio.UploadInfo{Bucket: "uploads"}, nil)
		signed, _ := url.Parse("http://localhost:9000/uploads/q1%20report.pdf?X-Amz-Expires=7200")
		mockClient.On("PresignedGetObject", mock.Anything, "uploads", "q1 report.pdf", 2*time.Hour, url.Values(nil)).
			Return(signed, nil)

		_, err := svc.UploadFile(context.Background(), "uploads", Upload{Filename: "q1 report.pdf", Size: 2, Body: strings.NewReader("hi")})
		require.NoError(t, err)
		result, err := svc.GenerateFileURL(context.Background(), "uploads", "q1 report.pdf")
		require.NoError(t, err)
		assert.Equal(t, signed.String(), result.URL)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})
		mockClient.On("PresignedGetObject",mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		result, err := svc.GenerateFileURL(context.Background(), "uploads", "a.txt")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestService_MakeObjectPublic(t *testing.T) {
	t.Run("MergesExistingPolicy", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		existing, err := storage.PublicReadPolicy("uploads", "old.txt")
		require.NoError(t, err)
		mockClient.On("GetBucketPolicy", mock.Anything, "uploads").Return(existing, nil)

		var written string
		mockClient.On("SetBucketPolicy", mock.Anything, "uploads", mock.Anything).
			Run(func(args mock.Arguments) { written = args.String(2) }).
			Return(nil)

		require.NoError(t, svc.MakeObjectPublic(context.Background(), "uploads", "new.txt"))

		var doc policy.BucketAccessPolicy
		require.NoError(t, json.Unmarshal([]byte(written), &doc))
		assert.True(t, storage.HasPublicRead(doc, "uploads", "old.txt"))
		assert.True(t, storage.HasPublicRead(doc, "uploads", "new.txt"))
	})

	t.Run("KeepsDenyGuard", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		existing := `{"Id":"site-guard","Version":"2012-10-17","Statement":[{"Sid":"DenyWrites","Effect":"Deny","Principal":{"AWS":["*"]},"NotAction":["s3:GetObject"],"NotResource":["arn:aws:s3:::uploads/public/*"]}]}`
		mockClient.On("GetBucketPolicy", mock.Anything, "uploads").Return(existing, nil)

		var written string
		mockClient.On("SetBucketPolicy", mock.Anything, "uploads", mock.Anything).
			Run(func(args mock.Arguments) { written = args.String(2) }).
			Return(nil)

		require.NoError(t, svc.MakeObjectPublic(context.Background(), "uploads", "new.txt"))

		assert.Contains(t, written, `"Id":"site-guard"`)
		assert.Contains(t, written, `"NotAction":["s3:GetObject"]`)
		assert.Contains(t, written, `"NotResource":["arn:aws:s3:::uploads/public/*"]`)

		var doc policy.BucketAccessPolicy
		require.NoError(t, json.Unmarshal([]byte(written), &doc))
		assert.Len(t, doc.Statements, 2)
		assert.True(t, storage.HasPublicRead(doc, "uploads", "new.txt"))
	})

	t.Run("NoPolicyYet", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		mockClient.On("GetBucketPolicy", mock.Anything, "uploads").
			Return("", minio.ErrorResponse{Code: "NoSuchBucketPolicy", StatusCode: http.StatusNotFound})
		mockClient.On("SetBucketPolicy", mock.Anything, "uploads", mock.Anything).Return(nil)

		assert.NoError(t, svc.MakeObjectPublic(context.Background(), "uploads", "new.txt"))
	})

	t.Run("ReplaceDropsOtherGrants", func(t *testing.T) {
		svc, mockClient := newMockService(Options{ReplacePolicy: true})

		expected, err := storage.PublicReadPolicy("uploads", "new.txt")
		require.NoError(t, err)
		mockClient.On("SetBucketPolicy", mock.Anything, "uploads", expected).Return(nil)

		require.NoError(t, svc.MakeObjectPublic(context.Background(), "uploads", "new.txt"))
		mockClient.AssertNotCalled(t, "GetBucketPolicy", mock.Anything, mock.Anything)
	})

	t.Run("FailurePropagates", func(t *testing.T) {
		svc, mockClient := newMockService(Options{})

		mockClient.On("GetBucketPolicy", mock.Anything, "ghost").
			Return("", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound})

		err := svc.MakeObjectPublic(context.Background(), "ghost", "a.txt")
		assert.True(t, storage.IsNotFound(err))
		mockClient.AssertNotCalled(t, "SetBucketPolicy", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_StatFile(t *testing.T) {
	svc, mockClient := newMockService(Options{})

	modified := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	mockClient.On("StatObject", mock.Anything, "uploads", "a.txt", mock.Anything).Return(minio.ObjectInfo{
		Key:          "a.txt",
		Size:         5,
		ETag:         "etag",
		ContentType:  "text/plain",
		LastModified: modified,
	}, nil)
	mockClient.On("StatObject", mock.Anything, "uploads", "missing.txt", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})

	stat, err := svc.StatFile(context.Background(), "uploads", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stat.Size)
	assert.Equal(t, "etag", stat.ETag)
	assert.Equal(t, "text/plain", stat.ContentType)
	assert.Equal(t, modified, stat.LastModified)

	stat, err = svc.StatFile(context.Background(), "uploads", "missing.txt")
	assert.Nil(t, stat)
	assert.True(t, storage.IsNotFound(err))
}

// The following run against the in-memory backend to check the round trips.

func TestUploadDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(mocks.NewMemory(), Options{EncodeKeys: true}, zap.NewNop())

	content := []byte{0, 1, 2, 3, 250, 251, 252, 253, 254, 255}
	_, err := svc.UploadFile(ctx, "test-bucket", Upload{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Body:        bytes.NewReader(content),
	})
	require.NoError(t, err)

	body, err := svc.DownloadFile(ctx, "test-bucket", "report.pdf")
	require.NoError(t, err)
	defer body.Close()
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	stat, err := svc.StatFile(ctx, "test-bucket", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), stat.Size)
	assert.Equal(t, "application/pdf", stat.ContentType)
}

func TestUploadThenDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(mocks.NewMemory(), Options{}, zap.NewNop())

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := svc.UploadFile(ctx, "test-bucket", Upload{Filename: name, Size: 1, Body: strings.NewReader("x")})
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteFile(ctx, "test-bucket", "a.txt"))

	keys, err := svc.ListFiles(ctx, "test-bucket")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, keys)
}

func TestMakeObjectPublic_KeepsEarlierGrants(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	svc := NewService(mem, Options{}, zap.NewNop())
	require.NoError(t, mem.MakeBucket(ctx, "site", minio.MakeBucketOptions{}))

	require.NoError(t, svc.MakeObjectPublic(ctx, "site", "index.html"))
	require.NoError(t, svc.MakeObjectPublic(ctx, "site", "logo.png"))

	doc, err := mem.GetBucketPolicy(ctx, "site")
	require.NoError(t, err)
	var p policy.BucketAccessPolicy
	require.NoError(t, json.Unmarshal([]byte(doc), &p))
	assert.True(t, storage.HasPublicRead(p, "site", "index.html"))
	assert.True(t, storage.HasPublicRead(p, "site", "logo.png"))
}
