package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/models"
)

// minPasswordLength is the minimum accepted password length
const minPasswordLength = 6

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// TokenIssuer is the interface that wraps session token creation
type TokenIssuer interface {
	// Method Generate creates a signed session token carrying the user's ID and role.
	//
	// If signing fails, the error will be returned together with an empty string.
	Generate(userID string, role models.Role) (string, error)
}

// AuthUserRepository is the interface that wraps the User store methods needed
// for registration and login
type AuthUserRepository interface {
	// Method Create inserts a new user into the store and assigns its ID.
	//
	// "user" parameter is used to create a new user.
	//
	// Returns apperrors.ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by normalized email.
	//
	// Returns apperrors.ErrNotFound when no user has this email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// authService implements registration and login
type authService struct {
	userRepo AuthUserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AuthUserRepository, tokens TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new student account and logs it in immediately
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, *models.PublicUser, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Email == "" || req.Password == "" {
		return "", nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrValidation)
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return "", nil, err
	}

	if len(req.Password) < minPasswordLength {
		return "", nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", nil, apperrors.ErrDuplicateEmail
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleStudent, // Default role
	}

	// The existence check and the insert are separate round trips; the store's
	// unique index catches the race between two concurrent registrations
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("userId", user.ID))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user.Public(time.Now().Year()), nil
}

// Login authenticates a user by email and password. An unknown email and a
// wrong password both return apperrors.ErrInvalidCredentials so the response
// never reveals which accounts exist.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.PublicUser, error) {
	if req.Email == "" || req.Password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("userId", user.ID))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user.Public(time.Now().Year()), nil
}

// normalizeEmail lowercases, trims and validates an email address
func normalizeEmail(email string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if !emailRegex.MatchString(normalized) {
		return "", fmt.Errorf("%w: invalid email format", apperrors.ErrValidation)
	}
	return normalized, nil
}
