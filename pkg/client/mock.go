package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

var _ API = (*Mock)(nil)

// Mock is an in-memory API implementation with the same observable behavior
// as the real server: same status codes, same pagination and filter rules,
// same derived-status cutoff. It is safe for concurrent use and is created
// per consumer, never shared through a package global.
type Mock struct {
	mu    sync.Mutex
	users []*UserProfile
	next  int
}

// NewMock creates a mock client seeded with a small fixture data set:
// one admin and a handful of students across enrollment years
func NewMock() *Mock {
	m := &Mock{}
	year := time.Now().Year()
	seed := []*UserProfile{
		{Name: "Admin User", Email: "admin@test.com", Role: RoleAdmin, Phone: "123-456-7890"},
		{Name: "Alice Johnson", Email: "alice@test.com", Role: RoleStudent, Phone: "111-222-3333", Course: "Web Development", EnrollmentYear: year},
		{Name: "Bob Williams", Email: "bob@test.com", Role: RoleStudent, Phone: "444-555-6666", Course: "Data Science", EnrollmentYear: year - 2},
		{Name: "Charlie Brown", Email: "charlie@test.com", Role: RoleStudent, Phone: "777-888-9999", Course: "UX/UI Design", EnrollmentYear: year},
		{Name: "Diana Prince", Email: "diana@test.com", Role: RoleStudent, Phone: "121-232-3434", Course: "Data Science", EnrollmentYear: year - 3},
	}
	for _, user := range seed {
		m.insert(user)
	}
	return m
}

// insert assigns an ID and stores the user. Callers hold the lock or run
// before the mock is shared.
func (m *Mock) insert(user *UserProfile) {
	m.next++
	user.ID = fmt.Sprintf("user-%02d", m.next)
	m.users = append(m.users, user)
}

// TokenFor returns the mock session token for a user ID. Useful for tests
// that need an authenticated caller without going through Login.
func (m *Mock) TokenFor(id string) string {
	return "mock-token-" + id
}

// resolveToken returns the user a mock token belongs to
func (m *Mock) resolveToken(token string) *UserProfile {
	id, ok := strings.CutPrefix(token, "mock-token-")
	if !ok {
		return nil
	}
	for _, user := range m.users {
		if user.ID == id {
			return user
		}
	}
	return nil
}

// requireAdmin replicates the server's auth middleware pair
func (m *Mock) requireAdmin(token string) error {
	user := m.resolveToken(token)
	if user == nil {
		return &APIError{Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	}
	if user.Role != RoleAdmin {
		return &APIError{Status: http.StatusForbidden, Message: "insufficient permissions"}
	}
	return nil
}

// withStatus returns a copy of the user with the derived status filled in
func withStatus(user *UserProfile, currentYear int) UserProfile {
	copied := *user
	if copied.Role == RoleStudent {
		copied.Status = StatusActive
		if copied.EnrollmentYear > 0 && copied.EnrollmentYear < currentYear-1 {
			copied.Status = StatusGraduated
		}
	}
	return copied
}

// Register creates a student account and logs it in
func (m *Mock) Register(_ context.Context, name, email, password string) (*AuthResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" || email == "" || password == "" {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "name, email and password are required"}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range m.users {
		if user.Email == email {
			return nil, &APIError{Status: http.StatusBadRequest, Message: "email already exists"}
		}
	}

	user := &UserProfile{Name: name, Email: email, Role: RoleStudent}
	m.insert(user)

	projected := withStatus(user, time.Now().Year())
	return &AuthResponse{Token: m.TokenFor(user.ID), User: &projected}, nil
}

// Login authenticates with email. The mock accepts any non-empty password for
// a known email; password verification belongs to the real backend.
func (m *Mock) Login(_ context.Context, email, password string) (*AuthResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if email == "" || password == "" {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "email and password are required"}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range m.users {
		if user.Email == email {
			projected := withStatus(user, time.Now().Year())
			return &AuthResponse{Token: m.TokenFor(user.ID), User: &projected}, nil
		}
	}
	return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
}

// ListStudents retrieves one directory page (admin only)
func (m *Mock) ListStudents(_ context.Context, token string, opts ListOptions) (*StudentList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return nil, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	currentYear := time.Now().Year()
	cutoff := currentYear - 1

	var matched []UserProfile
	// Newest-created first: walk the seeded slice backwards
	for i := len(m.users) - 1; i >= 0; i-- {
		user := m.users[i]
		if user.Role != RoleStudent {
			continue
		}
		switch opts.StatusFilter {
		case "", "All":
		case StatusGraduated:
			if user.EnrollmentYear == 0 || user.EnrollmentYear >= cutoff {
				continue
			}
		case StatusActive:
			if user.EnrollmentYear == 0 || user.EnrollmentYear < cutoff {
				continue
			}
		default:
			return nil, &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("unsupported status filter %q", opts.StatusFilter)}
		}
		matched = append(matched, withStatus(user, currentYear))
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &StudentList{Students: matched[start:end], Total: total}, nil
}

// GetStats retrieves the directory aggregate counts (admin only)
func (m *Mock) GetStats(_ context.Context, token string) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return nil, err
	}

	currentYear := time.Now().Year()
	stats := &Stats{}
	for _, user := range m.users {
		if user.Role != RoleStudent {
			continue
		}
		stats.Total++
		if withStatus(user, currentYear).Status == StatusGraduated {
			stats.Graduated++
		} else {
			stats.Active++
		}
	}
	return stats, nil
}

// CreateStudent adds a student record (admin only)
func (m *Mock) CreateStudent(_ context.Context, token string, req *CreateStudentRequest) (*CreatedStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return nil, err
	}
	if req.Name == "" || req.Email == "" {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "name and email are required"}
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, user := range m.users {
		if user.Email == email {
			return nil, &APIError{Status: http.StatusBadRequest, Message: "email already exists"}
		}
	}

	user := &UserProfile{
		Name:           req.Name,
		Email:          email,
		Role:           RoleStudent,
		Course:         req.Course,
		EnrollmentYear: req.EnrollmentYear,
	}
	m.insert(user)

	created := &CreatedStudent{UserProfile: withStatus(user, time.Now().Year())}
	if req.Password == "" {
		created.TemporaryPassword = "otp-" + user.ID
	}
	return created, nil
}

// UpdateStudent partially updates a student record (admin only)
func (m *Mock) UpdateStudent(_ context.Context, token, id string, req *UpdateStudentRequest) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return nil, err
	}

	for _, user := range m.users {
		if user.ID != id || user.Role != RoleStudent {
			continue
		}
		if req.Name != nil && *req.Name != "" {
			user.Name = *req.Name
		}
		if req.Email != nil && *req.Email != "" {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			for _, other := range m.users {
				if other.ID != id && other.Email == email {
					return nil, &APIError{Status: http.StatusBadRequest, Message: "email already exists"}
				}
			}
			user.Email = email
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
		projected := withStatus(user, time.Now().Year())
		return &projected, nil
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: "not found"}
}

// DeleteStudent permanently removes a student record (admin only)
func (m *Mock) DeleteStudent(_ context.Context, token, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return err
	}

	for i, user := range m.users {
		if user.ID == id && user.Role == RoleStudent {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: http.StatusNotFound, Message: "not found"}
}

// ChangeUserRole sets a user's role (admin only)
func (m *Mock) ChangeUserRole(_ context.Context, token, id, role string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireAdmin(token); err != nil {
		return nil, err
	}
	if role != RoleStudent && role != RoleAdmin {
		return nil, &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid role %q", role)}
	}

	for _, user := range m.users {
		if user.ID == id {
			user.Role = role
			projected := withStatus(user, time.Now().Year())
			return &projected, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: "not found"}
}

// GetMyProfile retrieves the caller's own profile
func (m *Mock) GetMyProfile(_ context.Context, token string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.resolveToken(token)
	if user == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	}
	projected := withStatus(user, time.Now().Year())
	return &projected, nil
}

// UpdateMyProfile partially updates the caller's own profile
func (m *Mock) UpdateMyProfile(_ context.Context, token string, req *UpdateProfileRequest) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.resolveToken(token)
	if user == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if user.Role == RoleStudent {
		if req.Course != nil {
			user.Course = *req.Course
		}
		if req.EnrollmentYear != nil {
			user.EnrollmentYear = *req.EnrollmentYear
		}
	}

	projected := withStatus(user, time.Now().Year())
	return &projected, nil
}
