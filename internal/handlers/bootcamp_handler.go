package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

type BootcampHandler struct {
	BaseHandler
	bootcampService services.BootcampService
}

func NewBootcampHandler(bootcampService services.BootcampService, logger utils.Logger) *BootcampHandler {
	return &BootcampHandler{
		BaseHandler:     NewBaseHandler(logger),
		bootcampService: bootcampService,
	}
}

// ListBootcamps returns bootcamps shaped by the query string.
// GET /api/v1/bootcamps
func (h *BootcampHandler) ListBootcamps(c *gin.Context) {
	q := query.Parse(c.Request.URL.Query())

	bootcamps, total, pagination, err := h.bootcampService.List(c.Request.Context(), q)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewListResponse(bootcamps, total, pagination))
}

// GetBootcamp returns a single bootcamp.
// GET /api/v1/bootcamps/:id
func (h *BootcampHandler) GetBootcamp(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bootcamp, err := h.bootcampService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(bootcamp))
}

// GetBootcampsInRadius returns bootcamps matching a zipcode.
// GET /api/v1/bootcamps/radius/:zipcode/:distance
func (h *BootcampHandler) GetBootcampsInRadius(c *gin.Context) {
	zipcode := c.Param("zipcode")

	bootcamps, err := h.bootcampService.ListByZipcode(c.Request.Context(), zipcode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	count := int64(len(bootcamps))
	c.JSON(http.StatusOK, models.NewListResponse(bootcamps, count, nil))
}

// CreateBootcamp creates a bootcamp owned by the authenticated user.
// POST /api/v1/bootcamps
func (h *BootcampHandler) CreateBootcamp(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.CreateBootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	h.LogRequest(c, "creating bootcamp", "user_id", user.ID)

	bootcamp, err := h.bootcampService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewSuccessResponse(bootcamp))
}

// UpdateBootcamp applies a partial update to an owned bootcamp.
// PUT /api/v1/bootcamps/:id
func (h *BootcampHandler) UpdateBootcamp(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	bootcamp, err := h.bootcampService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(bootcamp))
}

// DeleteBootcamp removes a bootcamp along with its courses and reviews.
// DELETE /api/v1/bootcamps/:id
func (h *BootcampHandler) DeleteBootcamp(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bootcampService.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
}

// UploadBootcampPhoto stores an image for the bootcamp.
// PUT /api/v1/bootcamps/:id/photo
func (h *BootcampHandler) UploadBootcampPhoto(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please upload a file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Please upload a file"))
		return
	}
	defer file.Close()

	filename, err := h.bootcampService.UploadPhoto(c.Request.Context(), user, id, &services.PhotoUpload{
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(filename))
}
