package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the standard error envelope.
// Controllers call this for anything a service returns; the detail message
// comes from the wrapped CustomError when one is present.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled service error")
	}

	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrPolicyViolation):
		return http.StatusConflict, dto.ErrorCodePolicyViolation, "Operation not allowed in current status"
	case errors.Is(err, apperrors.ErrAlreadyAttended):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Attendance already confirmed for this session"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeInvalidTransition, "Resource changed concurrently"
	case errors.Is(err, apperrors.ErrOfferingNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Offering not found"
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Session not found"
	case errors.Is(err, apperrors.ErrSemesterNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Semester not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrVideoMissing):
		return http.StatusUnprocessableEntity, dto.ErrorCodeUploadRejected, "Referenced video has not been uploaded"
	case errors.Is(err, apperrors.ErrPresignFailed):
		return http.StatusBadRequest, dto.ErrorCodePresignRejected, "Upload slot request rejected"
	case errors.Is(err, apperrors.ErrUploadFailed):
		return http.StatusBadRequest, dto.ErrorCodeUploadRejected, "Upload rejected"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
