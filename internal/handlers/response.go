package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"food_store/internal/apperror"
	"food_store/internal/middleware"
	"food_store/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err using its stable code. Anything outside the taxonomy is a 500.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		logger.Error("request_failed", "request_id", middleware.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "InternalError",
			Message: "An internal error occurred while processing your request",
		})
		return
	}

	status := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request_failed", "request_id", middleware.RequestID(c), "code", appErr.Code, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: appErr.Code, Message: appErr.Message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: apperror.CodeInvalidInput, Message: message})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// mustActor returns the authenticated caller. Routes are always mounted behind Authenticate.
func mustActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "authentication required"})
		return models.Actor{}, false
	}
	return actor, true
}
