package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/models"
)

// ProfileUserRepository is the interface that wraps the User store methods
// needed by the profile service
type ProfileUserRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// Returns apperrors.ErrNotFound when no user has this ID.
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// Method Update overwrites the mutable fields of a user.
	//
	// Returns apperrors.ErrNotFound when the user no longer exists.
	Update(ctx context.Context, user *models.User) error
}

// profileService implements self-service profile access and admin role changes
type profileService struct {
	userRepo ProfileUserRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo ProfileUserRepository, logger *zap.Logger) *profileService {
	return &profileService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetOwnProfile returns the caller's own record. The caller was authenticated
// by the middleware, but the account can still have been deleted mid-session,
// which surfaces as not found.
func (s *profileService) GetOwnProfile(ctx context.Context, callerID string) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return user.Public(time.Now().Year()), nil
}

// UpdateOwnProfile applies a partial update to the caller's own record. Name
// and phone are always updatable; course and enrollment year only for student
// callers and are silently ignored for admins. Nil fields stay unchanged.
func (s *profileService) UpdateOwnProfile(ctx context.Context, callerID string, req *models.UpdateProfileRequest) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if user.Role == models.RoleStudent {
		if req.Course != nil {
			user.Course = *req.Course
		}
		if req.EnrollmentYear != nil {
			user.EnrollmentYear = *req.EnrollmentYear
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Public(time.Now().Year()), nil
}

// ChangeRole sets a user's role to student or admin
func (s *profileService) ChangeRole(ctx context.Context, targetID string, newRole models.Role) (*models.PublicUser, error) {
	if !newRole.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, newRole)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if user.Role != newRole {
		user.Role = newRole
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("user role changed",
			zap.String("userId", user.ID),
			zap.String("role", string(newRole)),
		)
	}

	return user.Public(time.Now().Year()), nil
}
