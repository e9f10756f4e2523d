// Package client provides a typed client for the StudentHub REST API.
// Two interchangeable implementations exist: HTTPClient talks to a running
// server, Mock serves seeded in-memory data for UI development and tests.
package client

import (
	"context"
	"fmt"
)

// Role values accepted by the API
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Status values reported on student records
const (
	StatusActive    = "Active"
	StatusGraduated = "Graduated"
)

// UserProfile is the password-free user returned by the API
type UserProfile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Phone          string `json:"phone,omitempty"`
	Course         string `json:"course,omitempty"`
	EnrollmentYear int    `json:"enrollmentYear,omitempty"`
	Status         string `json:"status,omitempty"`
}

// AuthResponse is returned by Register and Login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// StudentList is one directory page plus the post-filter total
type StudentList struct {
	Students []UserProfile `json:"students"`
	Total    int           `json:"total"`
}

// Stats holds the directory aggregate counts
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Graduated int `json:"graduated"`
}

// ListOptions control directory pagination and filtering. Zero values fall
// back to the server defaults (page 1, limit 10, no filter).
type ListOptions struct {
	Page         int
	Limit        int
	StatusFilter string
}

// CreateStudentRequest is the payload for CreateStudent. Password may be left
// empty; the server then generates a one-time password and returns it once.
type CreateStudentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Course         string `json:"course,omitempty"`
	EnrollmentYear int    `json:"enrollmentYear,omitempty"`
}

// CreatedStudent is the CreateStudent response
type CreatedStudent struct {
	UserProfile
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

// UpdateStudentRequest is a partial student update; nil fields are not sent
// and keep their stored values
type UpdateStudentRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Course         *string `json:"course,omitempty"`
	EnrollmentYear *int    `json:"enrollmentYear,omitempty"`
}

// UpdateProfileRequest is a partial self-service profile update
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Course         *string `json:"course,omitempty"`
	EnrollmentYear *int    `json:"enrollmentYear,omitempty"`
}

// APIError is an error response from the API
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// API is the full client surface of the StudentHub backend. The session token
// is passed per call, matching how a presentation layer holds it.
type API interface {
	// Register creates a student account and logs it in
	Register(ctx context.Context, name, email, password string) (*AuthResponse, error)
	// Login authenticates with email and password
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	// ListStudents retrieves one directory page (admin only)
	ListStudents(ctx context.Context, token string, opts ListOptions) (*StudentList, error)
	// GetStats retrieves the directory aggregate counts (admin only)
	GetStats(ctx context.Context, token string) (*Stats, error)
	// CreateStudent adds a student record (admin only)
	CreateStudent(ctx context.Context, token string, req *CreateStudentRequest) (*CreatedStudent, error)
	// UpdateStudent partially updates a student record (admin only)
	UpdateStudent(ctx context.Context, token, id string, req *UpdateStudentRequest) (*UserProfile, error)
	// DeleteStudent permanently removes a student record (admin only)
	DeleteStudent(ctx context.Context, token, id string) error
	// ChangeUserRole sets a user's role (admin only)
	ChangeUserRole(ctx context.Context, token, id, role string) (*UserProfile, error)
	// GetMyProfile retrieves the caller's own profile
	GetMyProfile(ctx context.Context, token string) (*UserProfile, error)
	// UpdateMyProfile partially updates the caller's own profile
	UpdateMyProfile(ctx context.Context, token string, req *UpdateProfileRequest) (*UserProfile, error)
}
