package mocks

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// Memory is an in-memory storage.Client for scenario tests.
// It reports missing buckets and keys with the same S3 error codes Minio does.
type Memory struct {
	mu       sync.Mutex
	buckets  map[string]*memoryBucket
	policies map[string]string
	now      func() time.Time
}

type memoryBucket struct {
	created time.Time
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
	etag        string
	modified    time.Time
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		buckets:  make(map[string]*memoryBucket),
		policies: make(map[string]string),
		now:      time.Now,
	}
}

func errorResponse(code string, status int, bucket, key string) error {
	return minio.ErrorResponse{
		Code:       code,
		Message:    code,
		BucketName: bucket,
		Key:        key,
		StatusCode: status,
	}
}

func (m *Memory) bucket(name string) (*memoryBucket, error) {
	b, ok := m.buckets[name]
	if !ok {
		return nil, errorResponse("NoSuchBucket", http.StatusNotFound, name, "")
	}
	return b, nil
}

func (m *Memory) BucketExists(_ context.Context, bucketName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buckets[bucketName]
	return ok, nil
}

func (m *Memory) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucketName]; ok {
		return errorResponse("BucketAlreadyOwnedByYou", http.StatusConflict, bucketName, "")
	}
	m.buckets[bucketName] = &memoryBucket{created: m.now(), objects: make(map[string]memoryObject)}
	return nil
}

func (m *Memory) RemoveBucket(_ context.Context, bucketName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucket(bucketName)
	if err != nil {
		return err
	}
	if len(b.objects) > 0 {
		return errorResponse("BucketNotEmpty", http.StatusConflict, bucketName, "")
	}
	delete(m.buckets, bucketName)
	delete(m.policies, bucketName)
	return nil
}

func (m *Memory) ListBuckets(_ context.Context) ([]minio.BucketInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]minio.BucketInfo, 0, len(m.buckets))
	for name, b := range m.buckets {
		infos = append(infos, minio.BucketInfo{Name: name, CreationDate: b.created})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (m *Memory) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if objectSize >= 0 && int64(len(data)) != objectSize {
		return minio.UploadInfo{}, errorResponse("IncompleteBody", http.StatusBadRequest, bucketName, objectName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucket(bucketName)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	sum := md5.Sum(data)
	obj := memoryObject{
		data:        data,
		contentType: opts.ContentType,
		etag:        hex.EncodeToString(sum[:]),
		modified:    m.now(),
	}
	b.objects[objectName] = obj
	return minio.UploadInfo{
		Bucket:       bucketName,
		Key:          objectName,
		ETag:         obj.etag,
		Size:         int64(len(data)),
		LastModified: obj.modified,
	}, nil
}

func (m *Memory) object(bucketName, objectName string) (memoryObject, error) {
	b, err := m.bucket(bucketName)
	if err != nil {
		return memoryObject{}, err
	}
	obj, ok := b.objects[objectName]
	if !ok {
		return memoryObject{}, errorResponse("NoSuchKey", http.StatusNotFound, bucketName, objectName)
	}
	return obj, nil
}

func (m *Memory) GetObject(_ context.Context, bucketName, objectName string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, err := m.object(bucketName, objectName)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) ListObjects(_ context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucketName)
	if err != nil {
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: err}
		close(ch)
		return ch
	}

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		obj := b.objects[key]
		ch <- minio.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			ETag:         obj.etag,
			ContentType:  obj.contentType,
			LastModified: obj.modified,
		}
	}
	close(ch)
	return ch
}

func (m *Memory) RemoveObject(_ context.Context, bucketName, objectName string, _ minio.RemoveObjectOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucket(bucketName)
	if err != nil {
		return err
	}
	delete(b.objects, objectName)
	return nil
}

func (m *Memory) StatObject(_ context.Context, bucketName, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, err := m.object(bucketName, objectName)
	if err != nil {
		return minio.ObjectInfo{}, err
	}
	return minio.ObjectInfo{
		Key:          objectName,
		Size:         int64(len(obj.data)),
		ETag:         obj.etag,
		ContentType:  obj.contentType,
		LastModified: obj.modified,
	}, nil
}

func (m *Memory) PresignedGetObject(_ context.Context, bucketName, objectName string, expires time.Duration, _ url.Values) (*url.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.bucket(bucketName); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("X-Amz-Expires", strconv.Itoa(int(expires.Seconds())))
	q.Set("X-Amz-Date", m.now().UTC().Format("20060102T150405Z"))
	return &url.URL{
		Scheme:   "http",
		Host:     "memory.local",
		Path:     "/" + bucketName + "/" + objectName,
		RawQuery: q.Encode(),
	}, nil
}

func (m *Memory) GetBucketPolicy(_ context.Context, bucketName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.bucket(bucketName); err != nil {
		return "", err
	}
	return m.policies[bucketName], nil
}

func (m *Memory) SetBucketPolicy(_ context.Context, bucketName, policy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.bucket(bucketName); err != nil {
		return err
	}
	m.policies[bucketName] = policy
	return nil
}
