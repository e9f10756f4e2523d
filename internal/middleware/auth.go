package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/studenthub/backend/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// TokenValidator is the interface that wraps session token verification
type TokenValidator interface {
	// Method Validate checks a token's signature and expiry and returns the
	// userID and role it carries.
	Validate(token string) (string, models.Role, error)
}

// UserProvider is the interface that wraps user lookup by ID
type UserProvider interface {
	// Method GetByID retrieves a user by ID.
	//
	// Returns apperrors.ErrNotFound when no user has this ID.
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// Authenticate validates the bearer token and resolves the current user.
// The user is re-fetched from the store on every request rather than trusted
// from the token claims, so a role change or deletion takes effect before the
// token expires. The resolved user is attached to the request context.
func Authenticate(tokens TokenValidator, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, _, err := tokens.Validate(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// A valid token for a deleted account is still unauthenticated
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin callers. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if user.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser retrieves the authenticated user from context
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// respondError writes a {"message": ...} error body, the shape every error
// response in the API uses
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
