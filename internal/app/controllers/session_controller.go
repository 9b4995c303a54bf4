package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/app/services"
	"github.com/kerem/campusact/internal/middleware"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// SessionController handles session-related operations
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// GetSessions lists an offering's sessions.
func (c *SessionController) GetSessions(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	sessions, err := c.sessionService.GetSessions(ctx, offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(sessions))
}

// CreateSession adds a session to an OPEN offering.
func (c *SessionController) CreateSession(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	session, err := c.sessionService.CreateSession(ctx, offeringID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewResponse(session))
}

// UpdateSession applies a field diff to a session of an OPEN offering.
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	var patch dto.UpdateSessionRequest
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	session, err := c.sessionService.UpdateSession(ctx, offeringID, sessionID, &patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(session))
}

// ChangeSessionStatus transitions a session while the offering is IN_PROGRESS.
func (c *SessionController) ChangeSessionStatus(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	var req dto.ChangeSessionStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}
	if !policy.KnownSessionStatus(req.Status) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown session status")
		errorDetail = errorDetail.WithField("status")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.sessionService.ChangeSessionStatus(ctx, offeringID, sessionID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(session))
}

// GetStudentSessionDetail returns a session with a signed playback URL.
func (c *SessionController) GetStudentSessionDetail(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "offeringId")
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	session, err := c.sessionService.GetStudentSessionDetail(ctx, offeringID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewResponse(session))
}
