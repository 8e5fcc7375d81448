package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"schoolms/internal/cloudinary"
)

const maxAvatarBytes = 5 << 20

// upload stores a multipart "file" or a JSON {"data": "<base64 data URL>"} avatar
// and returns its public URL for use in a record's avatar field.
func (s *server) upload(c *gin.Context) {
	if s.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	var (
		result *cloudinary.UploadResult
		err    error
	)
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read file failed"})
			return
		}
		if len(data) > maxAvatarBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		result, err = s.uploader.UploadFile(c.Request.Context(), data, header.Filename)
	} else {
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": `provide {"data": "<base64 data URL>"}`})
			return
		}
		result, err = s.uploader.UploadDataURL(c.Request.Context(), body.Data)
	}

	if err != nil {
		var apiErr *cloudinary.APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			s.log.Warn("avatar rejected", "status", apiErr.StatusCode, "error", apiErr.Message)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
			return
		}
		s.log.Error("avatar upload failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      result.SecureURL,
		"publicId": result.PublicID,
		"width":    result.Width,
		"height":   result.Height,
		"bytes":    result.Bytes,
	})
}
