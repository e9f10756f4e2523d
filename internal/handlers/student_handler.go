package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/models"
)

// StudentService is the interface that wraps methods for the admin-only
// student directory business logic
type StudentService interface {
	// Method List retrieves one page of the student directory together with
	// the post-filter total.
	//
	// "page" and "limit" fall back to 1/10 when out of range.
	// "filter" selects All/Active/Graduated; Dropped is rejected.
	List(ctx context.Context, page, limit int, filter models.StatusFilter) (*models.StudentListResponse, error)
	// Method Stats returns the total/active/graduated counts over the student
	// subset.
	Stats(ctx context.Context) (*models.StatsResponse, error)
	// Method Create adds a new student record, generating a one-time password
	// when none is supplied.
	Create(ctx context.Context, req *models.CreateStudentRequest) (*models.CreatedStudentResponse, error)
	// Method Update applies a partial update to a student record.
	//
	// Returns apperrors.ErrNotFound when no student has this ID and
	// apperrors.ErrDuplicateEmail when the new email belongs to another user.
	Update(ctx context.Context, userID string, req *models.UpdateStudentRequest) (*models.PublicUser, error)
	// Method Delete permanently removes a student record.
	//
	// Returns apperrors.ErrNotFound when the record is absent or not a student.
	Delete(ctx context.Context, userID string) error
}

// StudentHandler handles student directory HTTP requests
type StudentHandler struct {
	BaseHandler
	studentService StudentService
}

// NewStudentHandler creates a new student directory handler
func NewStudentHandler(studentService StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		studentService: studentService,
	}
}

// RegisterRoutes registers all student directory routes. The caller wraps the
// group in the authentication and admin middlewares.
// Note: This assumes the router is already scoped to /api.
func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		// Specific routes before /{id}
		r.Get("/stats", h.Stats)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /students
// @Summary List students
// @Description Get a paginated student directory page, newest-created first, optionally filtered by derived status.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number (1-indexed, default 1)"
// @Param limit query int false "Page size (default 10)"
// @Param statusFilter query string false "All, Active or Graduated"
// @Success 200 {object} models.StudentListResponse "Students page and total"
// @Failure 400 {object} map[string]string "Unsupported status filter"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 403 {object} map[string]string "Not an admin"
// @Router /students [get]
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	// Absent or non-numeric values fall back to the defaults in the service
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := models.StatusFilter(r.URL.Query().Get("statusFilter"))

	resp, err := h.studentService.List(r.Context(), page, limit, filter)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// Stats handles GET /students/stats
// @Summary Student directory stats
// @Description Get total, active and graduated student counts.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.StatsResponse "Directory counts"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 403 {object} map[string]string "Not an admin"
// @Router /students/stats [get]
func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.studentService.Stats(r.Context())
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// Create handles POST /students
// @Summary Add a student
// @Description Create a new student record. When password is omitted a random one-time password is generated and returned once.
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateStudentRequest true "New student"
// @Success 201 {object} models.CreatedStudentResponse "Created student"
// @Failure 400 {object} map[string]string "Invalid input or email already exists"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 403 {object} map[string]string "Not an admin"
// @Router /students [post]
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.studentService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, student)
}

// Update handles PUT /students/{id}
// @Summary Update a student
// @Description Partially update a student record. Omitted fields keep their stored values.
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body models.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} models.PublicUser "Updated student"
// @Failure 400 {object} map[string]string "Invalid input or email already exists"
// @Failure 404 {object} map[string]string "Student not found"
// @Router /students/{id} [put]
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.studentService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, student)
}

// Delete handles DELETE /students/{id}
// @Summary Delete a student
// @Description Permanently remove a student record.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} map[string]string "Student removed"
// @Failure 404 {object} map[string]string "Student not found"
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "student removed successfully"})
}
