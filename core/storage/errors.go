package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// Kind classifies a BackendError.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindPermissionDenied
	KindInvalidInput
	KindTimeout
	KindTransport
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidInput:
		return "invalid_input"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// BackendError is returned by every bucket and file operation that fails.
// The message of the wrapped backend error is always preserved.
type BackendError struct {
	// Op names the failed operation, e.g. "create bucket".
	Op   string
	Kind Kind
	Err  error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Wrap turns err into a *BackendError for op, classifying it from the
// Minio error response when one is present. A nil err returns nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Kind: classify(err), Err: err}
}

// KindOf returns the Kind of err, or KindUnknown if err is not a BackendError.
func KindOf(err error) Kind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err means a missing bucket or object.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func classify(err error) Kind {
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		// Network failures mean the request never completed. Anything else
		// failed locally, e.g. decoding a policy document.
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return KindTransport
		}
		return KindUnknown
	}

	// S3 error codes take precedence over the HTTP status.
	switch resp.Code {
	case "NoSuchBucket", "NoSuchKey", "NoSuchUpload", "NoSuchBucketPolicy":
		return KindNotFound
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou", "BucketNotEmpty", "OperationAborted":
		return KindConflict
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return KindPermissionDenied
	case "InvalidBucketName", "InvalidObjectName", "XMinioInvalidObjectName", "KeyTooLongError", "MalformedPolicy", "InvalidArgument":
		return KindInvalidInput
	case "RequestTimeout", "SlowDown":
		return KindTimeout
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusForbidden, http.StatusUnauthorized:
		return KindPermissionDenied
	case http.StatusBadRequest:
		return KindInvalidInput
	}
	return KindUnknown
}
