package file

import (
	"object-manager/core/logger"
	"object-manager/core/server"
	"object-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying the uploaded file.
const FormField = "file"

// Handler handles HTTP requests for files.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the file routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/files")
	group.Get("/:bucket", h.HandleListFiles)
	group.Post("/:bucket", h.HandleUploadFile)
	group.Get("/:bucket/:filename", h.HandleDownloadFile)
	group.Delete("/:bucket/:filename", h.HandleDeleteFile)
	group.Get("/:bucket/:filename/url", h.HandleFileURL)
	group.Put("/:bucket/:filename/public", h.HandleMakePublic)
	group.Get("/:bucket/:filename/stat", h.HandleStatFile)
}

// HandleUploadFile uploads a multipart file.
// @Summary Upload File
// @Description Uploads the multipart field "file" under its original filename. The bucket is created if missing.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param file formData file true "File to upload"
// @Success 200 {object} UploadResult "Upload result"
// @Failure 400 {object} map[string]string "Missing file"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket} [post]
func (h *Handler) HandleUploadFile(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	l := logger.WithRayID(h.service.logger, c)

	fh, err := c.FormFile(FormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart field \"" + FormField + "\" is required",
		})
	}

	f, err := fh.Open()
	if err != nil {
		l.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer f.Close()

	result, err := h.service.UploadFile(c.Context(), bucket, Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		l.Error("Upload failed", zap.String("bucket", bucket), zap.String("filename", fh.Filename), zap.Error(err))
		return server.SendError(c, "Error uploading file", err)
	}
	return c.JSON(result)
}

// HandleListFiles lists object keys in a bucket.
// @Summary List Files
// @Description Returns every object key in the bucket.
// @Tags files
// @Produce json
// @Param bucket path string true "Bucket name"
// @Success 200 {array} string "Object keys"
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket} [get]
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	l := logger.WithRayID(h.service.logger, c)

	keys, err := h.service.ListFiles(c.Context(), bucket)
	if err != nil {
		l.Error("File listing failed", zap.String("bucket", bucket), zap.Error(err))
		return server.SendError(c, "Error listing files", err)
	}
	return c.JSON(keys)
}

// HandleDownloadFile streams an object as an attachment.
// @Summary Download File
// @Description Streams the object content as application/octet-stream.
// @Tags files
// @Produce octet-stream
// @Param bucket path string true "Bucket name"
// @Param filename path string true "Object key"
// @Success 200 {file} file "File content"
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket}/{filename} [get]
func (h *Handler) HandleDownloadFile(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	key := utils.PathParam(c, "filename")
	l := logger.WithRayID(h.service.logger, c)

	body, err := h.service.DownloadFile(c.Context(), bucket, key)
	if err != nil {
		l.Error("Download failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.SendError(c, "Error downloading file", err)
	}

	c.Attachment(key)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	// fasthttp closes the stream once the body has been written.
	return c.SendStream(body)
}

// HandleDeleteFile deletes an object.
// @Summary Delete File
// @Description Deletes the object from the bucket.
// @Tags files
// @Produce plain
// @Param bucket path string true "Bucket name"
// @Param filename path string true "Object key"
// @Success 200 {string} string "File deleted successfully."
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket}/{filename} [delete]
func (h *Handler) HandleDeleteFile(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	key := utils.PathParam(c, "filename")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteFile(c.Context(), bucket, key); err != nil {
		l.Error("Delete failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.SendError(c, "Error deleting file", err)
	}
	return c.SendString("File deleted successfully.")
}

// HandleFileURL returns a presigned download URL.
// @Summary Get File URL
// @Description Returns a signed GET URL valid for two hours.
// @Tags files
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param filename path string true "Original filename"
// @Success 200 {object} SignedURL "Signed URL"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket}/{filename}/url [get]
func (h *Handler) HandleFileURL(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	filename := utils.PathParam(c, "filename")
	l := logger.WithRayID(h.service.logger, c)

	signed, err := h.service.GenerateFileURL(c.Context(), bucket, filename)
	if err != nil {
		l.Error("URL generation failed", zap.String("bucket", bucket), zap.String("filename", filename), zap.Error(err))
		return server.SendError(c, "Error generating file URL", err)
	}
	return c.JSON(signed)
}

// HandleMakePublic grants anonymous read access to one object.
// @Summary Make File Public
// @Description Adds a bucket policy statement allowing anonymous GetObject on this object.
// @Tags files
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param filename path string true "Object key"
// @Success 200 {boolean} boolean "true"
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket}/{filename}/public [put]
func (h *Handler) HandleMakePublic(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	key := utils.PathParam(c, "filename")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.MakeObjectPublic(c.Context(), bucket, key); err != nil {
		l.Error("Making file public failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.SendError(c, "Error making file public", err)
	}
	return c.JSON(true)
}

// HandleStatFile returns object metadata.
// @Summary Stat File
// @Description Returns size, etag, content type and last-modified time of an object.
// @Tags files
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param filename path string true "Object key"
// @Success 200 {object} ObjectStat "Object metadata"
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /files/{bucket}/{filename}/stat [get]
func (h *Handler) HandleStatFile(c *fiber.Ctx) error {
	bucket := utils.PathParam(c, "bucket")
	key := utils.PathParam(c, "filename")
	l := logger.WithRayID(h.service.logger, c)

	stat, err := h.service.StatFile(c.Context(), bucket, key)
	if err != nil {
		l.Error("Stat failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.SendError(c, "Error reading file metadata", err)
	}
	return c.JSON(stat)
}
