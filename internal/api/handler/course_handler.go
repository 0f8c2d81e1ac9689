package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
)

// CourseHandler handles HTTP requests for course operations. Every route is
// mounted behind the Auth middleware.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

type createCourseResponse struct {
	Message     string         `json:"message"`
	SavedCourse *domain.Course `json:"savedCourse"`
}

type updateCourseResponse struct {
	Message       string         `json:"message"`
	UpdatedCourse *domain.Course `json:"updatedCourse"`
}

// List handles GET /api/courses/.
//
// @Summary      List all courses
// @Tags         courses
// @Produce      json
// @Security     JWTAuth
// @Success      200  {array}   domain.CourseView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/ [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// ListByInstructor handles GET /api/courses/instructor/:id.
//
// @Summary      List the courses of an instructor
// @Tags         courses
// @Produce      json
// @Security     JWTAuth
// @Param        id   path      string  true  "Instructor id"
// @Success      200  {array}   domain.CourseView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/instructor/{id} [get]
func (h *CourseHandler) ListByInstructor(c echo.Context) error {
	courses, err := h.service.ListByInstructor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// ListByStudent handles GET /api/courses/student/:id.
//
// @Summary      List the courses a student is enrolled in
// @Tags         courses
// @Produce      json
// @Security     JWTAuth
// @Param        id   path      string  true  "Student id"
// @Success      200  {array}   domain.CourseView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/student/{id} [get]
func (h *CourseHandler) ListByStudent(c echo.Context) error {
	courses, err := h.service.ListByStudent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// FindByTitle handles GET /api/courses/findByTitle/:title.
//
// @Summary      Find courses by exact title
// @Tags         courses
// @Produce      json
// @Security     JWTAuth
// @Param        title  path      string  true  "Course title"
// @Success      200    {array}   domain.CourseView
// @Failure      401    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /api/courses/findByTitle/{title} [get]
func (h *CourseHandler) FindByTitle(c echo.Context) error {
	courses, err := h.service.FindByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// Get handles GET /api/courses/:id.
//
// @Summary      Get a course by id
// @Tags         courses
// @Produce      json
// @Security     JWTAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  domain.CourseView
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Course not found.")
		}
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Create handles POST /api/courses/.
//
// @Summary      Upload a new course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     JWTAuth
// @Param        body  body      ports.CourseInput  true  "Course details"
// @Success      200   {object}  createCourseResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/courses/ [post]
func (h *CourseHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req ports.CourseInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.Create(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createCourseResponse{
		Message:     "Course Uploaded.",
		SavedCourse: course,
	})
}

// Enroll handles POST /api/courses/enroll/:id.
//
// @Summary      Enroll the caller in a course
// @Tags         courses
// @Produce      plain
// @Security     JWTAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {string}  string
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/enroll/{id} [post]
func (h *CourseHandler) Enroll(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Enroll(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Course Registered!")
}

// Update handles PATCH /api/courses/:id.
//
// @Summary      Edit a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     JWTAuth
// @Param        id    path      string             true  "Course id"
// @Param        body  body      ports.CoursePatch  true  "Fields to change"
// @Success      200   {object}  updateCourseResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/courses/{id} [patch]
func (h *CourseHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var patch ports.CoursePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateCourseResponse{
		Message:       "Course Information Updated!",
		UpdatedCourse: course,
	})
}

// Delete handles DELETE /api/courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      plain
// @Security     JWTAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {string}  string
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Course Deleted!")
}
