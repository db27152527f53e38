package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
	}
}

// ListReviews returns reviews shaped by the query string.
// GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	q := query.Parse(c.Request.URL.Query())

	reviews, total, pagination, err := h.reviewService.List(c.Request.Context(), q)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewListResponse(reviews, total, pagination))
}

// ListBootcampReviews returns every review of one bootcamp.
// GET /api/v1/bootcamps/:id/reviews
func (h *ReviewHandler) ListBootcampReviews(c *gin.Context) {
	bootcampID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByBootcamp(c.Request.Context(), bootcampID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	count := int64(len(reviews))
	c.JSON(http.StatusOK, models.NewListResponse(reviews, count, nil))
}

// GetReview returns a single review.
// GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(review))
}

// CreateReview adds the authenticated user's review of a bootcamp.
// POST /api/v1/bootcamps/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	bootcampID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), user, bootcampID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewSuccessResponse(review))
}

// UpdateReview applies a partial update to the user's own review.
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(review))
}

// DeleteReview removes the user's own review.
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
}
