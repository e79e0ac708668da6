package bucket

import (
	"object-manager/core/logger"
	"object-manager/core/server"
	"object-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for buckets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bucket routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/", h.HandleListBuckets)
	group.Post("/:bucket", h.HandleCreateBucket)
	group.Delete("/:bucket", h.HandleDeleteBucket)
	group.Get("/:bucket/exists", h.HandleBucketExists)
}

// HandleCreateBucket creates a bucket if it does not exist.
// @Summary Create Bucket
// @Description Creates the bucket. Creating an existing bucket succeeds without changes.
// @Tags buckets
// @Produce plain
// @Param bucket path string true "Bucket name"
// @Success 200 {string} string "Bucket created successfully."
// @Failure 400 {object} map[string]string "Invalid bucket name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /buckets/{bucket} [post]
func (h *Handler) HandleCreateBucket(c *fiber.Ctx) error {
	name := utils.PathParam(c, "bucket")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.CreateBucket(c.Context(), name); err != nil {
		l.Error("Bucket creation failed", zap.String("bucket", name), zap.Error(err))
		return server.SendError(c, "Error creating bucket", err)
	}
	return c.SendString("Bucket created successfully.")
}

// HandleDeleteBucket deletes a bucket.
// @Summary Delete Bucket
// @Description Deletes an empty bucket.
// @Tags buckets
// @Produce plain
// @Param bucket path string true "Bucket name"
// @Success 200 {string} string "Bucket deleted successfully."
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 409 {object} map[string]string "Bucket not empty"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /buckets/{bucket} [delete]
func (h *Handler) HandleDeleteBucket(c *fiber.Ctx) error {
	name := utils.PathParam(c, "bucket")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteBucket(c.Context(), name); err != nil {
		l.Error("Bucket deletion failed", zap.String("bucket", name), zap.Error(err))
		return server.SendError(c, "Error deleting bucket", err)
	}
	return c.SendString("Bucket deleted successfully.")
}

// HandleListBuckets lists all bucket names.
// @Summary List Buckets
// @Description Returns the names of all buckets in backend order.
// @Tags buckets
// @Produce json
// @Success 200 {array} string "Bucket names"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /buckets [get]
func (h *Handler) HandleListBuckets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.ListBuckets(c.Context())
	if err != nil {
		l.Error("Bucket listing failed", zap.Error(err))
		return server.SendError(c, "Error listing buckets", err)
	}
	return c.JSON(names)
}

// HandleBucketExists reports whether a bucket exists.
// @Summary Bucket Exists
// @Description Returns true when the bucket exists, false otherwise.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Success 200 {boolean} boolean "Existence flag"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /buckets/{bucket}/exists [get]
func (h *Handler) HandleBucketExists(c *fiber.Ctx) error {
	name := utils.PathParam(c, "bucket")
	l := logger.WithRayID(h.service.logger, c)

	exists, err := h.service.BucketExists(c.Context(), name)
	if err != nil {
		l.Error("Bucket existence check failed", zap.String("bucket", name), zap.Error(err))
		return server.SendError(c, "Error checking bucket", err)
	}
	return c.JSON(exists)
}
