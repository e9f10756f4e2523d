package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/auth"
	"github.com/studenthub/backend/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestStudentService_List(t *testing.T) {
	t.Run("defaults applied for out-of-range paging", func(t *testing.T) {
		repo := &mockUserRepository{
			listStudentsFunc: func(_ context.Context, page, limit int, filter models.StatusFilter, _ int) ([]models.User, int, error) {
				assert.Equal(t, 1, page)
				assert.Equal(t, 10, limit)
				assert.Equal(t, models.FilterAll, filter)
				return nil, 0, nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		result, err := service.List(context.Background(), 0, -5, models.FilterAll)
		require.NoError(t, err)
		assert.Zero(t, result.Total)
		assert.Empty(t, result.Students)
	})

	t.Run("records carry derived status", func(t *testing.T) {
		currentYear := time.Now().Year()
		repo := &mockUserRepository{
			listStudentsFunc: func(_ context.Context, _, _ int, _ models.StatusFilter, _ int) ([]models.User, int, error) {
				return []models.User{
					{ID: "s1", Role: models.RoleStudent, EnrollmentYear: currentYear},
					{ID: "s2", Role: models.RoleStudent, EnrollmentYear: currentYear - 2},
				}, 2, nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		result, err := service.List(context.Background(), 1, 10, "")
		require.NoError(t, err)
		require.Len(t, result.Students, 2)
		assert.Equal(t, models.StatusActive, result.Students[0].Status)
		assert.Equal(t, models.StatusGraduated, result.Students[1].Status)
	})

	t.Run("dropped filter is rejected", func(t *testing.T) {
		service := NewStudentService(&mockUserRepository{}, zap.NewNop())

		_, err := service.List(context.Background(), 1, 10, models.FilterDropped)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown filter is rejected", func(t *testing.T) {
		service := NewStudentService(&mockUserRepository{}, zap.NewNop())

		_, err := service.List(context.Background(), 1, 10, models.StatusFilter("Expelled"))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestStudentService_Stats(t *testing.T) {
	repo := &mockUserRepository{
		countStatsFunc: func(_ context.Context, currentYear int) (*models.StatsResponse, error) {
			assert.Equal(t, time.Now().Year(), currentYear)
			return &models.StatsResponse{Total: 3, Active: 2, Graduated: 1}, nil
		},
	}
	service := NewStudentService(repo, zap.NewNop())

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.StatsResponse{Total: 3, Active: 2, Graduated: 1}, stats)
}

func TestStudentService_Create(t *testing.T) {
	t.Run("without password generates a one-time password", func(t *testing.T) {
		var storedHash string
		repo := &mockUserRepository{
			existsByEmailFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
			createFunc: func(_ context.Context, user *models.User) error {
				user.ID = "s1"
				storedHash = user.PasswordHash
				assert.Equal(t, models.RoleStudent, user.Role)
				return nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		created, err := service.Create(context.Background(), &models.CreateStudentRequest{
			Name:  "Alice",
			Email: "alice@test.com",
		})
		require.NoError(t, err)
		assert.Len(t, created.TemporaryPassword, auth.OneTimePasswordLength)
		// The returned password must be the one that was hashed
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(created.TemporaryPassword)))
	})

	t.Run("with password omits the one-time password", func(t *testing.T) {
		repo := &mockUserRepository{
			existsByEmailFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
			createFunc: func(_ context.Context, user *models.User) error {
				user.ID = "s1"
				return nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		created, err := service.Create(context.Background(), &models.CreateStudentRequest{
			Name:     "Alice",
			Email:    "alice@test.com",
			Password: "chosen-password",
		})
		require.NoError(t, err)
		assert.Empty(t, created.TemporaryPassword)
	})

	t.Run("role cannot be smuggled in", func(t *testing.T) {
		repo := &mockUserRepository{
			existsByEmailFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
			createFunc: func(_ context.Context, user *models.User) error {
				user.ID = "s1"
				assert.Equal(t, models.RoleStudent, user.Role)
				return nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		created, err := service.Create(context.Background(), &models.CreateStudentRequest{
			Name:  "Mallory",
			Email: "mallory@test.com",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, created.Role)
	})

	t.Run("missing name", func(t *testing.T) {
		service := NewStudentService(&mockUserRepository{}, zap.NewNop())

		_, err := service.Create(context.Background(), &models.CreateStudentRequest{Email: "alice@test.com"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &mockUserRepository{
			existsByEmailFunc: func(_ context.Context, _ string) (bool, error) { return true, nil },
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Create(context.Background(), &models.CreateStudentRequest{Name: "Alice", Email: "alice@test.com"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})
}

func TestStudentService_Update(t *testing.T) {
	existing := func() *models.User {
		return &models.User{
			ID:             "s1",
			Name:           "Alice",
			Email:          "alice@test.com",
			Role:           models.RoleStudent,
			Phone:          "111-222-3333",
			Course:         "Data Science",
			EnrollmentYear: 2024,
		}
	}

	t.Run("nil and empty name/email fields stay unchanged", func(t *testing.T) {
		var saved *models.User
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) { return existing(), nil },
			updateFunc: func(_ context.Context, user *models.User) error {
				saved = user
				return nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "s1", &models.UpdateStudentRequest{
			Name:  strPtr(""),
			Email: strPtr(""),
			Phone: strPtr("999-999-9999"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", saved.Name)
		assert.Equal(t, "alice@test.com", saved.Email)
		assert.Equal(t, "999-999-9999", saved.Phone)
	})

	t.Run("explicit zero clears enrollment year and course", func(t *testing.T) {
		var saved *models.User
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) { return existing(), nil },
			updateFunc: func(_ context.Context, user *models.User) error {
				saved = user
				return nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "s1", &models.UpdateStudentRequest{
			Course:         strPtr(""),
			EnrollmentYear: intPtr(0),
		})
		require.NoError(t, err)
		assert.Empty(t, saved.Course)
		assert.Zero(t, saved.EnrollmentYear)
	})

	t.Run("email change checks for collisions", func(t *testing.T) {
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) { return existing(), nil },
			existsByEmailExceptFunc: func(_ context.Context, email, excludeID string) (bool, error) {
				assert.Equal(t, "taken@test.com", email)
				assert.Equal(t, "s1", excludeID)
				return true, nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "s1", &models.UpdateStudentRequest{
			Email: strPtr("taken@test.com"),
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("keeping the same email skips the collision check", func(t *testing.T) {
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) { return existing(), nil },
			updateFunc:  func(_ context.Context, _ *models.User) error { return nil },
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "s1", &models.UpdateStudentRequest{
			Email: strPtr("Alice@test.com"),
		})
		assert.NoError(t, err)
	})

	t.Run("admin records are invisible to the directory", func(t *testing.T) {
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{ID: "a1", Role: models.RoleAdmin}, nil
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "a1", &models.UpdateStudentRequest{Name: strPtr("X")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("missing record", func(t *testing.T) {
		repo := &mockUserRepository{
			getByIDFunc: func(_ context.Context, _ string) (*models.User, error) {
				return nil, apperrors.ErrNotFound
			},
		}
		service := NewStudentService(repo, zap.NewNop())

		_, err := service.Update(context.Background(), "missing", &models.UpdateStudentRequest{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestStudentService_Delete(t *testing.T) {
	repo := &mockUserRepository{
		deleteStudentFunc: func(_ context.Context, userID string) error {
			if userID == "s1" {
				return nil
			}
			return apperrors.ErrNotFound
		},
	}
	service := NewStudentService(repo, zap.NewNop())

	assert.NoError(t, service.Delete(context.Background(), "s1"))
	assert.ErrorIs(t, service.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
}
