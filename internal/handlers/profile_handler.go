package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/models"
)

// ProfileService is the interface that wraps methods for profile business logic
type ProfileService interface {
	// Method GetOwnProfile retrieves the caller's own password-free record.
	//
	// Returns apperrors.ErrNotFound when the account was deleted mid-session.
	GetOwnProfile(ctx context.Context, callerID string) (*models.PublicUser, error)
	// Method UpdateOwnProfile applies a partial update to the caller's own
	// record. Course and enrollment year are ignored for admin callers.
	UpdateOwnProfile(ctx context.Context, callerID string, req *models.UpdateProfileRequest) (*models.PublicUser, error)
	// Method ChangeRole sets a user's role to student or admin.
	//
	// Returns apperrors.ErrValidation for an unknown role and
	// apperrors.ErrNotFound when the target is absent.
	ChangeRole(ctx context.Context, targetID string, newRole models.Role) (*models.PublicUser, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers all profile handler routes. Self-service routes
// need only authentication; the role change additionally needs admin.
// Note: This assumes the router is already scoped to /api.
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authenticate, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", h.GetMyProfile)
		r.Put("/me", h.UpdateMyProfile)
		r.With(requireAdmin).Put("/{id}/role", h.ChangeRole)
	})
}

// GetMyProfile handles GET /users/me
// @Summary Get own profile
// @Description Get the authenticated user's profile, password-free.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.PublicUser "User profile"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "Account deleted mid-session"
// @Router /users/me [get]
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.profileService.GetOwnProfile(r.Context(), user.ID)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// UpdateMyProfile handles PUT /users/me
// @Summary Update own profile
// @Description Partially update the authenticated user's profile. Name and phone are always updatable; course and enrollment year only for students.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.PublicUser "Updated profile"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "Account deleted mid-session"
// @Router /users/me [put]
func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.UpdateOwnProfile(r.Context(), user.ID, &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// ChangeRole handles PUT /users/{id}/role
// @Summary Change a user's role
// @Description Set a user's role to student or admin.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param request body models.ChangeRoleRequest true "New role"
// @Success 200 {object} models.PublicUser "Updated user"
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 403 {object} map[string]string "Not an admin"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/role [put]
func (h *ProfileHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.profileService.ChangeRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, updated)
}
