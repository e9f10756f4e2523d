package services

import (
	"context"
	"errors"

	"github.com/studenthub/backend/internal/models"
)

// mockUserRepository is a function-field mock covering every repository
// interface the services consume. Tests set only the methods they expect to be
// called; an unset method fails loudly.
type mockUserRepository struct {
	createFunc              func(ctx context.Context, user *models.User) error
	getByIDFunc             func(ctx context.Context, userID string) (*models.User, error)
	getByEmailFunc          func(ctx context.Context, email string) (*models.User, error)
	existsByEmailFunc       func(ctx context.Context, email string) (bool, error)
	existsByEmailExceptFunc func(ctx context.Context, email, excludeID string) (bool, error)
	updateFunc              func(ctx context.Context, user *models.User) error
	deleteStudentFunc       func(ctx context.Context, userID string) error
	listStudentsFunc        func(ctx context.Context, page, limit int, filter models.StatusFilter, currentYear int) ([]models.User, int, error)
	countStatsFunc          func(ctx context.Context, currentYear int) (*models.StatsResponse, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc == nil {
		return errors.New("unexpected call to Create")
	}
	return m.createFunc(ctx, user)
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, errors.New("unexpected call to GetByID")
	}
	return m.getByIDFunc(ctx, userID)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, errors.New("unexpected call to GetByEmail")
	}
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc == nil {
		return false, errors.New("unexpected call to ExistsByEmail")
	}
	return m.existsByEmailFunc(ctx, email)
}

func (m *mockUserRepository) ExistsByEmailExcept(ctx context.Context, email, excludeID string) (bool, error) {
	if m.existsByEmailExceptFunc == nil {
		return false, errors.New("unexpected call to ExistsByEmailExcept")
	}
	return m.existsByEmailExceptFunc(ctx, email, excludeID)
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc == nil {
		return errors.New("unexpected call to Update")
	}
	return m.updateFunc(ctx, user)
}

func (m *mockUserRepository) DeleteStudent(ctx context.Context, userID string) error {
	if m.deleteStudentFunc == nil {
		return errors.New("unexpected call to DeleteStudent")
	}
	return m.deleteStudentFunc(ctx, userID)
}

func (m *mockUserRepository) ListStudents(ctx context.Context, page, limit int, filter models.StatusFilter, currentYear int) ([]models.User, int, error) {
	if m.listStudentsFunc == nil {
		return nil, 0, errors.New("unexpected call to ListStudents")
	}
	return m.listStudentsFunc(ctx, page, limit, filter, currentYear)
}

func (m *mockUserRepository) CountStats(ctx context.Context, currentYear int) (*models.StatsResponse, error) {
	if m.countStatsFunc == nil {
		return nil, errors.New("unexpected call to CountStats")
	}
	return m.countStatsFunc(ctx, currentYear)
}

// mockTokenIssuer signs predictable tokens
type mockTokenIssuer struct {
	generateFunc func(userID string, role models.Role) (string, error)
}

func (m *mockTokenIssuer) Generate(userID string, role models.Role) (string, error) {
	if m.generateFunc == nil {
		return "token-" + userID, nil
	}
	return m.generateFunc(userID, role)
}
