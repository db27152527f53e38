package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

// BaseHandler carries the helpers shared by every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs handler activity with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// parseIDParam reads a numeric path parameter. A malformed id is treated
// the same as a missing resource, so the response is a 404.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, models.NewErrorResponse("Resource not found with id of "+idStr))
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user placed in the context by the
// auth middleware.
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse("Not authorized to access this route"))
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse("Not authorized to access this route"))
		return nil, false
	}
	return user, true
}

// handleServiceError translates service errors into the response envelope.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(validationErrors.Error()))
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, models.NewErrorResponse("User is not authorized to perform this action"))
		return
	}

	switch {
	case errors.Is(err, services.ErrBootcampNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("Bootcamp not found"))
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("Course not found"))
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("Review not found"))
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("User not found"))
	case errors.Is(err, services.ErrDuplicateValue):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Duplicate field value entered"))
	case errors.Is(err, services.ErrDuplicateReview):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("User has already submitted a review for this bootcamp"))
	case errors.Is(err, services.ErrAlreadyPublished):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("User has already published a bootcamp"))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse("Invalid credentials"))
	case errors.Is(err, services.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid token"))
	case errors.Is(err, services.ErrEmailNotSent):
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Email could not be sent"))
	case errors.Is(err, services.ErrMissingFile):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please upload a file"))
	case errors.Is(err, services.ErrInvalidFileType):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please upload an image file"))
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please upload an image smaller than the size limit"))
	default:
		utils.FromContext(c.Request.Context(), h.logger).Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
	}
}
