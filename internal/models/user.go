package models

import "time"

// Role is the coarse permission tier of a user
type Role string

// Role constants
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the two supported values
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Status is the derived Active/Graduated classification of a student.
// It is never persisted: it is recomputed from the enrollment year and the
// current calendar year on every read, so the value reported for the same
// record can change across a year boundary with no intervening write.
type Status string

// Status constants
const (
	StatusActive    Status = "Active"
	StatusGraduated Status = "Graduated"
)

// StatusFor computes the status for an enrollment year against the given
// calendar year. Students enrolled two or more years ago count as graduated;
// enrollmentYear == currentYear-1 is still Active. A zero enrollment year
// (not set) is Active.
func StatusFor(enrollmentYear, currentYear int) Status {
	if enrollmentYear > 0 && enrollmentYear < currentYear-1 {
		return StatusGraduated
	}
	return StatusActive
}

// User represents a user in the system
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize password hash
	Role           Role      `json:"role"`
	Phone          string    `json:"phone,omitempty"`
	Course         string    `json:"course,omitempty"`
	EnrollmentYear int       `json:"enrollmentYear,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
