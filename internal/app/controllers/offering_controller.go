package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/app/services"
	"github.com/kerem/campusact/internal/middleware"
	"github.com/kerem/campusact/internal/pkg/helpers"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// OfferingController handles offering-related operations
type OfferingController struct {
	offeringService services.OfferingService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(offeringService services.OfferingService) *OfferingController {
	return &OfferingController{offeringService: offeringService}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// GetAllOfferings lists offerings with optional keyword and semester filters.
func (c *OfferingController) GetAllOfferings(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := &dto.OfferingFilterRequest{
		Page:     page,
		PageSize: size,
		Keyword:  ctx.Query("keyword"),
	}
	if semStr := ctx.Query("semesterId"); semStr != "" {
		semID, err := strconv.ParseInt(semStr, 10, 64)
		if err != nil || semID < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid semesterId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.SemesterID = semID
	}

	offerings, meta, err := c.offeringService.GetAllOfferings(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(offerings, meta))
}

// GetOfferingByID retrieves one offering with its semester.
func (c *OfferingController) GetOfferingByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	offering, err := c.offeringService.GetOfferingByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(offering))
}

// UpdateOffering applies a field diff to a DRAFT offering.
func (c *OfferingController) UpdateOffering(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	var patch dto.UpdateOfferingRequest
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	offering, err := c.offeringService.UpdateOffering(ctx, id, &patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(offering))
}

// ChangeOfferingStatus transitions an offering's lifecycle status.
func (c *OfferingController) ChangeOfferingStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	var req dto.ChangeOfferingStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}
	if !policy.KnownOfferingStatus(req.Status) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown offering status")
		errorDetail = errorDetail.WithField("status")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	offering, err := c.offeringService.ChangeOfferingStatus(ctx, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(offering))
}
