package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// ListCourses returns courses shaped by the query string.
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	q := query.Parse(c.Request.URL.Query())

	courses, total, pagination, err := h.courseService.List(c.Request.Context(), q)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewListResponse(courses, total, pagination))
}

// ListBootcampCourses returns every course of one bootcamp, unpaginated.
// GET /api/v1/bootcamps/:id/courses
func (h *CourseHandler) ListBootcampCourses(c *gin.Context) {
	bootcampID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	courses, err := h.courseService.ListByBootcamp(c.Request.Context(), bootcampID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	count := int64(len(courses))
	c.JSON(http.StatusOK, models.NewListResponse(courses, count, nil))
}

// GetCourse returns a single course.
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(course))
}

// CreateCourse adds a course to a bootcamp.
// POST /api/v1/bootcamps/:id/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	bootcampID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), user, bootcampID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewSuccessResponse(course))
}

// UpdateCourse applies a partial update to an owned course.
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request payload"))
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(course))
}

// DeleteCourse removes an owned course.
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
}
