package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"object-manager/core/server"
	"object-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, fiber.StatusNotFound},
		{"Conflict", minio.ErrorResponse{Code: "BucketNotEmpty", StatusCode: http.StatusConflict}, fiber.StatusConflict},
		{"Forbidden", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, fiber.StatusForbidden},
		{"BadRequest", minio.ErrorResponse{Code: "InvalidBucketName", StatusCode: http.StatusBadRequest}, fiber.StatusBadRequest},
		{"Timeout", minio.ErrorResponse{Code: "RequestTimeout", StatusCode: http.StatusBadRequest}, fiber.StatusGatewayTimeout},
		{"Transport", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, fiber.StatusInternalServerError},
		{"Canceled", context.Canceled, server.StatusClientClosedRequest},
		{"Deadline", context.DeadlineExceeded, fiber.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.StatusFor(storage.Wrap("op", tt.err)))
		})
	}

	assert.Equal(t, fiber.StatusInternalServerError, server.StatusFor(errors.New("plain")))
}

func TestSendError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		err := storage.Wrap("delete bucket", minio.ErrorResponse{Code: "NoSuchBucket", Message: "no such bucket", StatusCode: http.StatusNotFound})
		return server.SendError(c, "Error deleting bucket", err)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Error deleting bucket")
	assert.Contains(t, body["error"], "no such bucket")
	assert.Equal(t, "not_found", body["kind"])
}
