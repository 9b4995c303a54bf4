package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/logger"
	"github.com/kerem/campusact/internal/pkg/objectstore"
	"github.com/kerem/campusact/internal/pkg/presign"
)

// StorageController serves the raw object-store endpoint. Access is gated
// only by the pre-signed URL signature, never by a session token, so video
// players and upload clients need no Authorization header.
type StorageController struct {
	store  *objectstore.LocalStore
	signer *presign.Signer
}

// NewStorageController creates a new StorageController
func NewStorageController(store *objectstore.LocalStore, signer *presign.Signer) *StorageController {
	return &StorageController{store: store, signer: signer}
}

func (c *StorageController) verify(ctx *gin.Context, method, key string) bool {
	err := c.signer.Verify(method, key, ctx.Query("exp"), ctx.Query("sig"), time.Now())
	if err == nil {
		return true
	}

	code := dto.ErrorCodeForbidden
	message := "Signature mismatch"
	if errors.Is(err, presign.ErrExpired) {
		message = "Signed URL expired"
	}
	ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	return false
}

// PutObject accepts the raw bytes of a pre-signed upload.
func (c *StorageController) PutObject(ctx *gin.Context) {
	key := ctx.Param("key")[1:] // strip the wildcard's leading slash
	if !c.verify(ctx, http.MethodPut, key) {
		return
	}

	size, err := c.store.Put(key, ctx.Request.Body)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("object write failed")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUploadRejected, "Failed to store object")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewResponse(gin.H{"key": key, "size": size}))
}

// GetObject streams a stored object for a pre-signed playback URL.
func (c *StorageController) GetObject(ctx *gin.Context) {
	key := ctx.Param("key")[1:]
	if !c.verify(ctx, http.MethodGet, key) {
		return
	}

	obj, size, err := c.store.Open(key)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Object not found")
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
			return
		}
		logger.Error().Err(err).Str("key", key).Msg("object read failed")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to read object")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}
	defer obj.Close()

	ctx.Header("Content-Type", "video/mp4")
	ctx.Header("Content-Length", strconv.FormatInt(size, 10))
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, obj); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("object stream interrupted")
	}
}
