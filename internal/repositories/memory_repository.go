package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/models"
)

// memoryRepository is an in-memory user store with the same semantics as the
// MySQL repository. It backs tests and local development; it is injected like
// any other repository, never shared as a package global.
type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	seq   map[string]int // insertion order, tie-break for equal created_at
	next  int
}

// NewMemoryRepository creates an empty in-memory user repository
func NewMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users: make(map[string]*models.User),
		seq:   make(map[string]int),
	}
}

// Create inserts a new user, enforcing email uniqueness like the database
// unique index does
func (r *memoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperrors.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	user.JoinedAt = now
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	r.seq[user.ID] = r.next
	r.next++
	return nil
}

// GetByID retrieves a user by ID
func (r *memoryRepository) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail retrieves a user by normalized email
func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ExistsByEmail checks if a user exists with the given email
func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByEmailExcept checks if the email belongs to a user other than the given one
func (r *memoryRepository) ExistsByEmailExcept(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Update overwrites every mutable field of a user and refreshes updated_at
func (r *memoryRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, other := range r.users {
		if other.ID != user.ID && other.Email == user.Email {
			return apperrors.ErrDuplicateEmail
		}
	}

	user.JoinedAt = stored.JoinedAt
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// DeleteStudent permanently removes a student record
func (r *memoryRepository) DeleteStudent(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok || user.Role != models.RoleStudent {
		return apperrors.ErrNotFound
	}
	delete(r.users, userID)
	delete(r.seq, userID)
	return nil
}

// ListStudents retrieves one page of students, newest-created first
func (r *memoryRepository) ListStudents(_ context.Context, page, limit int, filter models.StatusFilter, currentYear int) ([]models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := currentYear - 1
	var matched []*models.User
	for _, user := range r.users {
		if user.Role != models.RoleStudent {
			continue
		}
		switch filter {
		case models.FilterGraduated:
			if user.EnrollmentYear == 0 || user.EnrollmentYear >= cutoff {
				continue
			}
		case models.FilterActive:
			// An unset enrollment year matches neither filter, same as a NULL
			// column in the database
			if user.EnrollmentYear == 0 || user.EnrollmentYear < cutoff {
				continue
			}
		}
		matched = append(matched, user)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return r.seq[matched[i].ID] > r.seq[matched[j].ID]
	})

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	students := make([]models.User, 0, end-start)
	for _, user := range matched[start:end] {
		students = append(students, *user)
	}
	return students, total, nil
}

// CountStats returns the directory aggregates over the student subset
func (r *memoryRepository) CountStats(_ context.Context, currentYear int) (*models.StatsResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.StatsResponse{}
	for _, user := range r.users {
		if user.Role != models.RoleStudent {
			continue
		}
		stats.Total++
		if models.StatusFor(user.EnrollmentYear, currentYear) == models.StatusGraduated {
			stats.Graduated++
		} else {
			stats.Active++
		}
	}
	return stats, nil
}
