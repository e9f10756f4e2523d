package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/models"
)

// AuthService is the interface that wraps methods for authentication business logic
type AuthService interface {
	// Method Register validates the credentials, creates a student account and
	// returns a session token with the password-free user projection.
	//
	// "req" parameter contains name, email and password.
	//
	// Returns apperrors.ErrValidation for missing/malformed input and
	// apperrors.ErrDuplicateEmail when the email is already registered.
	Register(ctx context.Context, req *models.RegisterRequest) (string, *models.PublicUser, error)
	// Method Login authenticates a user and returns a session token with the
	// password-free user projection.
	//
	// Returns apperrors.ErrInvalidCredentials for an unknown email or a wrong
	// password, without distinguishing the two.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.PublicUser, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes.
// Note: This assumes the router is already scoped to /api.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new student account with name, email and password. Returns a session token and the created user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.AuthResponse "User registered"
// @Failure 400 {object} map[string]string "Invalid input or email already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. Returns a session token and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 400 {object} map[string]string "Missing email or password"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}
