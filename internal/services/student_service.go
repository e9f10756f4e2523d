package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/auth"
	"github.com/studenthub/backend/internal/models"
)

// Directory listing defaults
const (
	defaultPage  = 1
	defaultLimit = 10
)

// StudentRepository is the interface that wraps the User store methods needed
// by the directory service
type StudentRepository interface {
	// Method Create inserts a new user into the store and assigns its ID.
	//
	// Returns apperrors.ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// Returns apperrors.ErrNotFound when no user has this ID.
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByEmailExcept checks if the email belongs to a user other
	// than the given one.
	ExistsByEmailExcept(ctx context.Context, email, excludeID string) (bool, error)
	// Method Update overwrites the mutable fields of a user.
	//
	// Returns apperrors.ErrNotFound when the user no longer exists and
	// apperrors.ErrDuplicateEmail when the new email is already taken.
	Update(ctx context.Context, user *models.User) error
	// Method DeleteStudent permanently removes a student record.
	//
	// Returns apperrors.ErrNotFound when the record is absent or not a student.
	DeleteStudent(ctx context.Context, userID string) error
	// Method ListStudents retrieves one page of students, newest-created
	// first, together with the post-filter total.
	ListStudents(ctx context.Context, page, limit int, filter models.StatusFilter, currentYear int) ([]models.User, int, error)
	// Method CountStats returns the total/active/graduated counts over the
	// student subset.
	CountStats(ctx context.Context, currentYear int) (*models.StatsResponse, error)
}

// studentService implements the admin-only student directory
type studentService struct {
	userRepo StudentRepository
	logger   *zap.Logger
}

// NewStudentService creates a new student directory service
func NewStudentService(userRepo StudentRepository, logger *zap.Logger) *studentService {
	return &studentService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List retrieves one page of the student directory. Page and limit fall back
// to 1/10 when absent or out of range. The status filter and the status
// reported on each record use the same enrollment-year cutoff, so they are
// always consistent at query time.
func (s *studentService) List(ctx context.Context, page, limit int, filter models.StatusFilter) (*models.StudentListResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	switch filter {
	case "", models.FilterAll, models.FilterActive, models.FilterGraduated:
	case models.FilterDropped:
		// No stored dropped flag exists to filter on; reject rather than
		// silently returning the unfiltered list
		return nil, fmt.Errorf("%w: unsupported status filter %q", apperrors.ErrValidation, filter)
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", apperrors.ErrValidation, filter)
	}

	currentYear := time.Now().Year()
	students, total, err := s.userRepo.ListStudents(ctx, page, limit, filter, currentYear)
	if err != nil {
		return nil, err
	}

	records := make([]models.PublicUser, len(students))
	for i := range students {
		records[i] = *students[i].Public(currentYear)
	}

	return &models.StudentListResponse{Students: records, Total: total}, nil
}

// Stats returns the directory aggregate counts
func (s *studentService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	return s.userRepo.CountStats(ctx, time.Now().Year())
}

// Create adds a new student record. The role is always student regardless of
// input. When no password is supplied a random one-time password is generated
// and returned exactly once in the response.
func (s *studentService) Create(ctx context.Context, req *models.CreateStudentRequest) (*models.CreatedStudentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail
	}

	password := req.Password
	var oneTimePassword string
	if password == "" {
		oneTimePassword, err = auth.GenerateOneTimePassword()
		if err != nil {
			s.logger.Error("failed to generate one-time password", zap.Error(err))
			return nil, err
		}
		password = oneTimePassword
	} else if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(passwordHash),
		Role:           models.RoleStudent,
		Course:         req.Course,
		EnrollmentYear: req.EnrollmentYear,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &models.CreatedStudentResponse{
		PublicUser:        user.Public(time.Now().Year()),
		TemporaryPassword: oneTimePassword,
	}, nil
}

// Update applies a partial update to a student record. Nil fields are left
// unchanged; name and email additionally ignore explicit empty values since
// they can never be cleared. Explicit values for phone, course and enrollment
// year are applied even when empty or zero, so those can be cleared.
func (s *studentService) Update(ctx context.Context, userID string, req *models.UpdateStudentRequest) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			taken, err := s.userRepo.ExistsByEmailExcept(ctx, email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, apperrors.ErrDuplicateEmail
			}
			user.Email = email
		}
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Course != nil {
		user.Course = *req.Course
	}
	if req.EnrollmentYear != nil {
		user.EnrollmentYear = *req.EnrollmentYear
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Public(time.Now().Year()), nil
}

// Delete permanently removes a student record
func (s *studentService) Delete(ctx context.Context, userID string) error {
	return s.userRepo.DeleteStudent(ctx, userID)
}
