package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/app/services"
	"github.com/kerem/campusact/internal/middleware"
)

// AttendanceController handles attendance confirmation for students.
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// ConfirmAttendance records a completed watch for the authenticated student.
func (c *AttendanceController) ConfirmAttendance(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	studentID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ConfirmAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	rec, err := c.attendanceService.ConfirmAttendance(ctx, offeringID, sessionID, studentID, req.WatchedSeconds)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewResponse(dto.AttendanceResponse{
		SessionID:      rec.SessionID,
		Attended:       rec.Attended,
		WatchedSeconds: rec.WatchedSeconds,
		ConfirmedAt:    rec.ConfirmedAt,
	}))
}

// GetAttendance reports the authenticated student's record for a session.
func (c *AttendanceController) GetAttendance(ctx *gin.Context) {
	if _, ok := parseIDParam(ctx, "offeringId"); !ok {
		return
	}
	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	studentID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	rec, err := c.attendanceService.GetAttendance(ctx, sessionID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if rec == nil {
		ctx.JSON(http.StatusOK, dto.NewResponse(dto.AttendanceResponse{
			SessionID: sessionID,
			Attended:  false,
		}))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(dto.AttendanceResponse{
		SessionID:      rec.SessionID,
		Attended:       rec.Attended,
		WatchedSeconds: rec.WatchedSeconds,
		ConfirmedAt:    rec.ConfirmedAt,
	}))
}
