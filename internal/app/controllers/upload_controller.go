package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/app/services"
	"github.com/kerem/campusact/internal/middleware"
)

// UploadController hands out pre-signed upload slots for session videos.
type UploadController struct {
	uploadService services.UploadService
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// CreateUploadSlot validates the announced file and returns a pre-signed
// PUT destination plus the storage key the caller must later commit.
func (c *UploadController) CreateUploadSlot(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	var req dto.PresignUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	slot, err := c.uploadService.CreateUploadSlot(ctx, offeringID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewResponse(slot))
}
