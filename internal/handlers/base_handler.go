package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/apperrors"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"message": message})
}

// RespondServiceError maps a service error onto the HTTP status of its
// sentinel. Errors outside the taxonomy become a 500 with a generic message;
// the real error stays in the server log only.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicateEmail):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthenticated):
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	default:
		h.Logger.Error("unexpected error", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
